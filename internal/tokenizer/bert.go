package tokenizer

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"
	"github.com/sugarme/tokenizer/processor"
)

const (
	clsToken = "[CLS]"
	sepToken = "[SEP]"
)

type BertConfig struct {
	VocabFile string
	UnkToken  string
	MaskToken string
	LowerCase bool
}

// Bert is a WordPiece tokenizer configured the way bert-base-uncased was trained
type Bert struct {
	tk        *tokenizer.Tokenizer
	vocabSize int
}

func NewBert(conf BertConfig) (*Bert, error) {
	if len(conf.VocabFile) == 0 {
		return nil, fmt.Errorf("vocab file is empty, please provide a valid vocab file")
	}
	model, err := wordpiece.NewWordPieceFromFile(conf.VocabFile, conf.UnkToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load wordpiece vocab %s: %w", conf.VocabFile, err)
	}
	tk := tokenizer.NewTokenizer(model)

	bertNormalizer := normalizer.NewBertNormalizer(true, true, conf.LowerCase, conf.LowerCase)
	tk.WithNormalizer(bertNormalizer)
	tk.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())

	// the mask token must survive normalization untouched
	tk.AddSpecialTokens([]tokenizer.AddedToken{tokenizer.NewAddedToken(conf.MaskToken, true)})

	sepId, ok := tk.TokenToId(sepToken)
	if !ok {
		return nil, fmt.Errorf("cannot find id for %s token in %s", sepToken, conf.VocabFile)
	}
	clsId, ok := tk.TokenToId(clsToken)
	if !ok {
		return nil, fmt.Errorf("cannot find id for %s token in %s", clsToken, conf.VocabFile)
	}
	if _, ok := tk.TokenToId(conf.MaskToken); !ok {
		return nil, fmt.Errorf("cannot find id for %s token in %s", conf.MaskToken, conf.VocabFile)
	}
	sep := processor.PostToken{Id: sepId, Value: sepToken}
	cls := processor.PostToken{Id: clsId, Value: clsToken}
	tk.WithPostProcessor(processor.NewBertProcessing(sep, cls))

	vocabSize := tk.GetVocabSize(false)
	log.Info().
		Str("vocab_file", conf.VocabFile).
		Int("vocab_size", vocabSize).
		Msg("Bert tokenizer initialized")
	return &Bert{tk: tk, vocabSize: vocabSize}, nil
}

func (b *Bert) Encode(sentence string) (*Encoding, error) {
	en, err := b.tk.EncodeSingle(sentence, true)
	if err != nil {
		return nil, err
	}
	return &Encoding{
		Ids:           toInt64(en.Ids),
		AttentionMask: toInt64(en.AttentionMask),
		TypeIds:       toInt64(en.TypeIds),
		Tokens:        en.Tokens,
	}, nil
}

func (b *Bert) Token(index int) (string, bool) {
	if index < 0 || index >= b.vocabSize {
		return "", false
	}
	return b.tk.IdToToken(index)
}

func (b *Bert) Size() int {
	return b.vocabSize
}

func toInt64(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}
