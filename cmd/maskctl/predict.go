package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Meesho/BharatMLStack/maskfill/internal/handler/fillmask"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/clients/predator"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

func predictCmd() *cli.Command {
	var (
		host       string
		port       string
		model      string
		version    string
		output     string
		callerId   string
		topK       int64
		deadlineMs int64
		plainText  bool
		rawInputs  bool
		asJSON     bool
	)

	flags := append(tokenizerFlags(),
		&cli.StringFlag{Name: "host", Usage: "predator host", Value: "localhost", Sources: cli.EnvVars("PREDATOR_HOST"), Destination: &host},
		&cli.StringFlag{Name: "port", Usage: "predator port", Value: "8001", Sources: cli.EnvVars("PREDATOR_PORT"), Destination: &port},
		&cli.StringFlag{Name: "model", Usage: "model name", Value: "bert-base-uncased", Destination: &model},
		&cli.StringFlag{Name: "model-version", Usage: "model version, empty for latest", Destination: &version},
		&cli.StringFlag{Name: "output", Usage: "logits output name", Value: "logits", Destination: &output},
		&cli.StringFlag{Name: "caller-id", Usage: "caller id header", Value: "maskctl", Destination: &callerId},
		&cli.Int64Flag{Name: "k", Usage: "number of predictions", Value: 5, Destination: &topK},
		&cli.Int64Flag{Name: "deadline-ms", Usage: "per call timeout", Value: 2000, Destination: &deadlineMs},
		&cli.BoolFlag{Name: "plain-text", Usage: "dial without TLS", Value: true, Destination: &plainText},
		&cli.BoolFlag{Name: "raw-inputs", Usage: "send raw_input_contents", Destination: &rawInputs},
		&cli.BoolFlag{Name: "json", Usage: "print the full result as JSON", Destination: &asJSON},
	)

	return &cli.Command{
		Name:      "predict",
		Usage:     "Predict the masked token of a sentence",
		ArgsUsage: "<sentence>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sentence := strings.Join(cmd.Args().Slice(), " ")
			if len(sentence) == 0 {
				return fmt.Errorf("a sentence with a %s token is required", maskToken)
			}
			tk, err := loadTokenizer()
			if err != nil {
				return err
			}
			client := predator.NewClientV1(&predator.Config{
				Host:      host,
				Port:      port,
				PlainText: plainText,
				CallerId:  callerId,
				DeadLine:  int(deadlineMs),
				RawInputs: rawInputs,
				Retry:     predator.RetryConfig{MaxAttempts: 1},
			})
			handler := fillmask.NewHandler(tk, client, nil, fillmask.Config{
				ModelName:    model,
				ModelVersion: version,
				OutputName:   output,
				MaskToken:    maskToken,
				DefaultTopK:  int(topK),
				MaxTopK:      tk.Size(),
			})

			result, err := handler.Predict(ctx, sentence, int(topK))
			if err != nil {
				return err
			}
			w := cmd.Root().Writer
			if asJSON {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, string(data))
				return err
			}
			_, err = fmt.Fprintln(w, result.Text)
			return err
		},
	}
}
