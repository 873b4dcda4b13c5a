package fillmask

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Meesho/BharatMLStack/maskfill/internal/tokenizer"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/clients/predator"
)

var testVocab = []string{"[PAD]", "[UNK]", "[CLS]", "[SEP]", "[MASK]", "the", "cat", "sat", "on", "mat", "."}

// whitespaceTokenizer splits on spaces and wraps the sentence in [CLS] ... [SEP]
type whitespaceTokenizer struct {
	ids       map[string]int64
	err       error
	truncated bool
}

func newWhitespaceTokenizer() *whitespaceTokenizer {
	ids := make(map[string]int64, len(testVocab))
	for i, token := range testVocab {
		ids[token] = int64(i)
	}
	return &whitespaceTokenizer{ids: ids}
}

func (w *whitespaceTokenizer) Encode(sentence string) (*tokenizer.Encoding, error) {
	if w.err != nil {
		return nil, w.err
	}
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(sentence), ".", " ."))
	tokens := append([]string{"[CLS]"}, words...)
	tokens = append(tokens, "[SEP]")
	en := &tokenizer.Encoding{Tokens: make([]string, len(tokens))}
	for i, token := range tokens {
		// keep the mask token in its original casing
		if strings.EqualFold(token, "[mask]") {
			token = "[MASK]"
		}
		id, ok := w.ids[token]
		if !ok {
			id, token = 1, "[UNK]"
		}
		en.Tokens[i] = token
		en.Ids = append(en.Ids, id)
		en.AttentionMask = append(en.AttentionMask, 1)
		en.TypeIds = append(en.TypeIds, 0)
	}
	if w.truncated {
		en.TypeIds = en.TypeIds[:len(en.TypeIds)-1]
	}
	return en, nil
}

func (w *whitespaceTokenizer) Token(index int) (string, bool) {
	if index < 0 || index >= len(testVocab) {
		return "", false
	}
	return testVocab[index], true
}

func (w *whitespaceTokenizer) Size() int {
	return len(testVocab)
}

var _ tokenizer.Tokenizer = (*whitespaceTokenizer)(nil)

// fakeClient answers every request through respond
type fakeClient struct {
	calls   atomic.Int32
	respond func(req *predator.InferRequest) (*predator.InferResponse, error)
	ready   bool
}

func (f *fakeClient) ModelInfer(ctx context.Context, req *predator.InferRequest) (*predator.InferResponse, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.respond(req)
}

func (f *fakeClient) ModelReady(ctx context.Context, modelName, modelVersion string) (bool, error) {
	if !f.ready {
		return false, errors.New("not ready")
	}
	return true, nil
}

// mapCache is an in-memory ResultCache storing values by reference
type mapCache struct {
	mu    sync.Mutex
	items map[string]Result
}

func (m *mapCache) Get(key string, value any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[key]
	if ok {
		*value.(*Result) = r
	}
	return ok
}

func (m *mapCache) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[string]Result)
	}
	m.items[key] = *value.(*Result)
}
