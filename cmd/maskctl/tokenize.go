package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Meesho/BharatMLStack/maskfill/internal/handler/fillmask"
	"github.com/urfave/cli/v3"
)

func tokenizeCmd() *cli.Command {
	return &cli.Command{
		Name:      "tokenize",
		Usage:     "Show tokens, ids and the mask position of a sentence",
		ArgsUsage: "<sentence>",
		Flags:     tokenizerFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sentence := strings.Join(cmd.Args().Slice(), " ")
			if len(sentence) == 0 {
				return fmt.Errorf("a sentence is required")
			}
			tk, err := loadTokenizer()
			if err != nil {
				return err
			}
			en, err := tk.Encode(sentence)
			if err != nil {
				return err
			}
			w := cmd.Root().Writer
			for i, token := range en.Tokens {
				_, _ = fmt.Fprintf(w, "%3d  %-16s %d\n", i, token, en.Ids[i])
			}
			if pos, ok := fillmask.LocateMask(en.Tokens, maskToken); ok {
				_, _ = fmt.Fprintf(w, "mask position: %d\n", pos)
			} else {
				_, _ = fmt.Fprintf(w, "no %s token found\n", maskToken)
			}
			return nil
		},
	}
}
