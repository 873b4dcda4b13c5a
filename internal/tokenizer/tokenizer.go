package tokenizer

// Encoding is the output of tokenizing one sentence. All four sequences are
// expected to have one entry per token.
type Encoding struct {
	Ids           []int64
	AttentionMask []int64
	TypeIds       []int64
	Tokens        []string
}

// Encoder turns a sentence into model inputs.
type Encoder interface {
	Encode(sentence string) (*Encoding, error)
}

// Vocabulary resolves vocabulary indices back to token strings.
type Vocabulary interface {
	Token(index int) (string, bool)
	Size() int
}

// Tokenizer is an encoder that also exposes its vocabulary.
type Tokenizer interface {
	Encoder
	Vocabulary
}
