package main

import (
	"github.com/Meesho/BharatMLStack/maskfill/internal/tokenizer"
	"github.com/urfave/cli/v3"
)

var (
	vocabFile string
	maskToken string
	unkToken  string
	lowerCase bool
)

func tokenizerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "vocab",
			Aliases:     []string{"v"},
			Usage:       "path to the WordPiece vocab.txt",
			Sources:     cli.EnvVars("TOKENIZER_VOCAB_FILE"),
			Destination: &vocabFile,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "mask-token",
			Usage:       "mask placeholder token",
			Value:       "[MASK]",
			Destination: &maskToken,
		},
		&cli.StringFlag{
			Name:        "unk-token",
			Usage:       "unknown token",
			Value:       "[UNK]",
			Destination: &unkToken,
		},
		&cli.BoolFlag{
			Name:        "lower-case",
			Usage:       "lower case input before tokenizing",
			Value:       true,
			Destination: &lowerCase,
		},
	}
}

func loadTokenizer() (*tokenizer.Bert, error) {
	return tokenizer.NewBert(tokenizer.BertConfig{
		VocabFile: vocabFile,
		UnkToken:  unkToken,
		MaskToken: maskToken,
		LowerCase: lowerCase,
	})
}
