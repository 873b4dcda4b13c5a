package main

import (
	"context"
	"fmt"
	"net"
	"os"

	triton "github.com/Meesho/BharatMLStack/helix-client/pkg/clients/predator/client/grpc"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

func main() {
	var (
		port      string
		vocabSize int64
		notReady  bool
	)

	app := &cli.Command{
		Name:  "predator-mock",
		Usage: "Serve deterministic masked-LM logits over the KServe v2 gRPC protocol",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Value: "8001", Sources: cli.EnvVars("PORT"), Destination: &port},
			&cli.Int64Flag{Name: "vocab-size", Value: 30522, Sources: cli.EnvVars("VOCAB_SIZE"), Destination: &vocabSize},
			&cli.BoolFlag{Name: "not-ready", Usage: "report the model as not ready", Destination: &notReady},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if vocabSize < 1 {
				return fmt.Errorf("vocab size %d must be positive", vocabSize)
			}
			lis, err := net.Listen("tcp", ":"+port)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", port, err)
			}
			s := grpc.NewServer()
			triton.RegisterGRPCInferenceServiceServer(s, &server{vocabSize: int(vocabSize), ready: !notReady})
			reflection.Register(s)

			log.Info().Msgf("predator mock listening on port %s with vocab size %d", port, vocabSize)
			return s.Serve(lis)
		},
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Error().Err(err).Msg("predator mock stopped")
		os.Exit(1)
	}
}
