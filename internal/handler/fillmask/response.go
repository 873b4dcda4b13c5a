package fillmask

import (
	"fmt"
	"strings"

	ferrors "github.com/Meesho/BharatMLStack/maskfill/internal/errors"
	"github.com/Meesho/BharatMLStack/maskfill/internal/tokenizer"
)

// Assemble renders indices as "Top <k> predictions: a, b, ..."
func Assemble(indices []int, vocab tokenizer.Vocabulary) (string, error) {
	tokens, err := lookupTokens(indices, vocab)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Top %d predictions: %s", len(indices), strings.Join(tokens, ", ")), nil
}

func lookupTokens(indices []int, vocab tokenizer.Vocabulary) ([]string, error) {
	tokens := make([]string, len(indices))
	for i, idx := range indices {
		token, ok := vocab.Token(idx)
		if !ok {
			return nil, &ferrors.UnknownTokenIndexError{Index: idx, VocabSize: vocab.Size()}
		}
		tokens[i] = token
	}
	return tokens, nil
}
