package fillmask

import (
	"strings"

	ferrors "github.com/Meesho/BharatMLStack/maskfill/internal/errors"
	"github.com/Meesho/BharatMLStack/maskfill/internal/tokenizer"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/clients/predator"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/tensor"
	"github.com/rs/zerolog/log"
)

// Input tensor names, sent in this order
const (
	InputIdsName      = "input_ids"
	AttentionMaskName = "attention_mask"
	TokenTypeIdsName  = "token_type_ids"
)

type RequestBuilder struct {
	Encoder      tokenizer.Encoder
	MaskToken    string
	ModelName    string
	ModelVersion string
	OutputName   string
}

// Build tokenizes sentence and returns the inference request together with the mask position.
// A sentence without a mask token fails here, before any backend call.
func (b *RequestBuilder) Build(sentence string) (*predator.InferRequest, int, error) {
	encoding, err := b.Encoder.Encode(sentence)
	if err != nil {
		return nil, -1, &ferrors.EncodingError{Sentence: sentence, ErrorMsg: "tokenizer failed", Err: err}
	}
	if encoding == nil {
		return nil, -1, &ferrors.EncodingError{Sentence: sentence, ErrorMsg: "tokenizer returned no encoding"}
	}
	n := len(encoding.Ids)
	if len(encoding.AttentionMask) != n || len(encoding.TypeIds) != n || len(encoding.Tokens) != n {
		return nil, -1, &ferrors.EncodingError{
			Sentence: sentence,
			ErrorMsg: "ids, attention mask, type ids and tokens differ in length",
		}
	}

	maskPosition, ok := LocateMask(encoding.Tokens, b.MaskToken)
	if !ok {
		if strings.Contains(sentence, b.MaskToken) {
			log.Debug().Str("sentence", sentence).Msg("mask token present in sentence but not in its tokens")
		}
		return nil, -1, &ferrors.NoMaskTokenError{Sentence: sentence, MaskToken: b.MaskToken}
	}

	req := &predator.InferRequest{
		ModelName:    b.ModelName,
		ModelVersion: b.ModelVersion,
		Inputs: []tensor.Descriptor{
			tensor.EncodeInt64Tensor(InputIdsName, encoding.Ids),
			tensor.EncodeInt64Tensor(AttentionMaskName, encoding.AttentionMask),
			tensor.EncodeInt64Tensor(TokenTypeIdsName, encoding.TypeIds),
		},
	}
	if len(b.OutputName) > 0 {
		req.Outputs = []string{b.OutputName}
	}
	return req, maskPosition, nil
}
