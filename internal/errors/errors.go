package errors

import (
	"fmt"
)

// EncodingError is returned when the tokenizer fails or produces inconsistent output.
type EncodingError struct {
	Sentence string
	ErrorMsg string
	Err      error
}

func (m *EncodingError) Error() string {
	if m.Err != nil {
		return fmt.Sprintf("failed to encode sentence %q: %s: %v", m.Sentence, m.ErrorMsg, m.Err)
	}
	return fmt.Sprintf("failed to encode sentence %q: %s", m.Sentence, m.ErrorMsg)
}

func (m *EncodingError) Unwrap() error {
	return m.Err
}

// NoMaskTokenError is returned when the tokenized sentence carries no mask token.
type NoMaskTokenError struct {
	Sentence  string
	MaskToken string
}

func (m *NoMaskTokenError) Error() string {
	return fmt.Sprintf("sentence %q does not contain the mask token %s", m.Sentence, m.MaskToken)
}

// MalformedBufferError is returned when a raw FP32 buffer is not a whole number of elements.
type MalformedBufferError struct {
	Length      int
	ElementSize int
}

func (m *MalformedBufferError) Error() string {
	return fmt.Sprintf("malformed tensor buffer: length %d is not a multiple of %d", m.Length, m.ElementSize)
}

type IndexOutOfRangeError struct {
	ErrorMsg string
}

func (m *IndexOutOfRangeError) Error() string {
	return m.ErrorMsg
}

type InvalidArgumentError struct {
	ErrorMsg string
}

func (m *InvalidArgumentError) Error() string {
	return m.ErrorMsg
}

// InferenceBackendError wraps transport level failures, timeouts included, of the inference backend.
type InferenceBackendError struct {
	ModelName string
	Err       error
}

func (m *InferenceBackendError) Error() string {
	return fmt.Sprintf("inference backend call failed for model %s: %v", m.ModelName, m.Err)
}

func (m *InferenceBackendError) Unwrap() error {
	return m.Err
}

type UnknownTokenIndexError struct {
	Index     int
	VocabSize int
}

func (m *UnknownTokenIndexError) Error() string {
	return fmt.Sprintf("token index %d is outside the vocabulary of size %d", m.Index, m.VocabSize)
}
