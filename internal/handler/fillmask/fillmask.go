package fillmask

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	ferrors "github.com/Meesho/BharatMLStack/maskfill/internal/errors"
	"github.com/Meesho/BharatMLStack/maskfill/internal/tokenizer"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/clients/predator"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/metric"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/tensor"
	"github.com/rs/zerolog/log"
)

const (
	outcomeSuccess         = "success"
	outcomeNoMask          = "no_mask"
	outcomeEncodingError   = "encoding_error"
	outcomeInvalidArgument = "invalid_argument"
	outcomeBackendError    = "backend_error"
	outcomeDecodeError     = "decode_error"
	outcomeError           = "error"
)

// ResultCache stores finished predictions. Implementations must be safe for concurrent use.
type ResultCache interface {
	Get(key string, value any) bool
	Set(key string, value any)
}

type Config struct {
	ModelName    string
	ModelVersion string
	OutputName   string
	MaskToken    string
	DefaultTopK  int
	MaxTopK      int
}

type Prediction struct {
	Index       int     `json:"index"`
	Token       string  `json:"token"`
	Score       float32 `json:"score"`
	Probability float64 `json:"probability"`
}

type Result struct {
	Sentence    string       `json:"sentence"`
	MaskIndex   int          `json:"mask_index"`
	Predictions []Prediction `json:"predictions"`
	Text        string       `json:"text"`
}

// Handler runs one fill-mask prediction per call. It holds no per-request state.
type Handler struct {
	builder RequestBuilder
	vocab   tokenizer.Vocabulary
	client  predator.Client
	cache   ResultCache
	config  Config
}

// NewHandler wires the pipeline. cache may be nil.
func NewHandler(tk tokenizer.Tokenizer, client predator.Client, cache ResultCache, config Config) *Handler {
	if config.DefaultTopK < 1 {
		log.Panic().Msgf("default top k %d must be positive", config.DefaultTopK)
	}
	if config.MaxTopK < config.DefaultTopK {
		log.Panic().Msgf("max top k %d is below default top k %d", config.MaxTopK, config.DefaultTopK)
	}
	return &Handler{
		builder: RequestBuilder{
			Encoder:      tk,
			MaskToken:    config.MaskToken,
			ModelName:    config.ModelName,
			ModelVersion: config.ModelVersion,
			OutputName:   config.OutputName,
		},
		vocab:  tk,
		client: client,
		cache:  cache,
		config: config,
	}
}

// Predict returns the k most likely tokens for the mask in sentence. k == 0 selects the configured default.
func (h *Handler) Predict(ctx context.Context, sentence string, k int) (*Result, error) {
	startTime := time.Now()
	result, err := h.predict(ctx, sentence, k)
	tags := metric.BuildTag(
		metric.NewTag(metric.TagModelName, h.config.ModelName),
		metric.NewTag(metric.TagOutcome, outcome(err)),
	)
	metric.Incr(metric.PredictionCount, tags)
	metric.Timing(metric.PredictionLatency, time.Since(startTime), tags)
	return result, err
}

func (h *Handler) predict(ctx context.Context, sentence string, k int) (*Result, error) {
	if k == 0 {
		k = h.config.DefaultTopK
	}
	if k < 1 || k > h.config.MaxTopK {
		return nil, &ferrors.InvalidArgumentError{ErrorMsg: fmt.Sprintf("k %d must be within [1, %d]", k, h.config.MaxTopK)}
	}

	key := h.cacheKey(sentence, k)
	if h.cache != nil {
		var cached Result
		if h.cache.Get(key, &cached) {
			metric.Incr(metric.CacheRequestCount, metric.BuildTag(metric.NewTag(metric.TagCacheResult, "hit")))
			return &cached, nil
		}
		metric.Incr(metric.CacheRequestCount, metric.BuildTag(metric.NewTag(metric.TagCacheResult, "miss")))
	}

	req, maskPosition, err := h.builder.Build(sentence)
	if err != nil {
		return nil, err
	}

	resp, err := h.client.ModelInfer(ctx, req)
	if err != nil {
		var backendErr *ferrors.InferenceBackendError
		if !errors.As(err, &backendErr) {
			err = &ferrors.InferenceBackendError{ModelName: req.ModelName, Err: err}
		}
		return nil, err
	}
	if resp == nil || len(resp.Outputs) == 0 {
		return nil, &ferrors.InferenceBackendError{ModelName: req.ModelName, Err: errors.New("response carries no outputs")}
	}

	output := resp.Outputs[0]
	logits, err := tensor.DecodeLogits(output.DataType, output.Raw)
	if err != nil {
		log.Error().Err(err).
			Int("buffer_length", len(output.Raw)).
			Str("datatype", output.DataType.String()).
			Msg("Failed to decode logits")
		return nil, err
	}

	vocabSize := h.vocab.Size()
	if dims := len(output.Shape); dims > 0 {
		if output.Shape[dims-1] != int64(vocabSize) {
			return nil, &ferrors.IndexOutOfRangeError{ErrorMsg: fmt.Sprintf(
				"output %s last dimension %d does not match vocab size %d", output.Name, output.Shape[dims-1], vocabSize)}
		}
		if !shapeHolds(output.Shape, len(logits)) {
			return nil, &ferrors.IndexOutOfRangeError{ErrorMsg: fmt.Sprintf(
				"output %s shape %v does not describe %d logits", output.Name, output.Shape, len(logits))}
		}
	}

	indices, err := TopK(logits, maskPosition, vocabSize, k)
	if err != nil {
		return nil, err
	}
	text, err := Assemble(indices, h.vocab)
	if err != nil {
		return nil, err
	}
	probabilities, err := Softmax(logits, maskPosition, vocabSize, indices)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Sentence:    sentence,
		MaskIndex:   maskPosition,
		Predictions: make([]Prediction, len(indices)),
		Text:        text,
	}
	offset := maskPosition * vocabSize
	for i, idx := range indices {
		token, _ := h.vocab.Token(idx)
		result.Predictions[i] = Prediction{
			Index:       idx,
			Token:       token,
			Score:       logits[offset+idx],
			Probability: probabilities[i],
		}
	}

	if h.cache != nil {
		h.cache.Set(key, result)
	}
	return result, nil
}

func (h *Handler) cacheKey(sentence string, k int) string {
	return h.config.ModelName + "|" + h.config.ModelVersion + "|" + strconv.Itoa(k) + "|" + sentence
}

// shapeHolds reports whether shape has exactly n elements. Negative dimensions never hold.
func shapeHolds(shape []int64, n int) bool {
	count := int64(1)
	for _, dim := range shape {
		if dim < 0 {
			return false
		}
		if dim == 0 {
			return n == 0
		}
		if count > int64(n)/dim {
			return false
		}
		count *= dim
	}
	return count == int64(n)
}

// Ready reports whether the backend can serve the configured model
func (h *Handler) Ready(ctx context.Context) (bool, error) {
	return h.client.ModelReady(ctx, h.config.ModelName, h.config.ModelVersion)
}

func outcome(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	var (
		noMask     *ferrors.NoMaskTokenError
		encoding   *ferrors.EncodingError
		invalid    *ferrors.InvalidArgumentError
		backend    *ferrors.InferenceBackendError
		malformed  *ferrors.MalformedBufferError
		outOfRange *ferrors.IndexOutOfRangeError
	)
	switch {
	case errors.As(err, &noMask):
		return outcomeNoMask
	case errors.As(err, &encoding):
		return outcomeEncodingError
	case errors.As(err, &invalid):
		return outcomeInvalidArgument
	case errors.As(err, &backend):
		return outcomeBackendError
	case errors.As(err, &malformed), errors.As(err, &outOfRange):
		return outcomeDecodeError
	default:
		return outcomeError
	}
}
