package http

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	ferrors "github.com/Meesho/BharatMLStack/maskfill/internal/errors"
	"github.com/Meesho/BharatMLStack/maskfill/internal/handler/fillmask"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/api"
	"github.com/gin-gonic/gin"
)

const (
	sentenceParam = "sentence"
	topKParam     = "k"
)

type Predictor interface {
	Predict(ctx context.Context, sentence string, k int) (*fillmask.Result, error)
	Ready(ctx context.Context) (bool, error)
}

type predictionResponse struct {
	Index       int      `json:"index"`
	Token       string   `json:"token"`
	Score       *float64 `json:"score"`
	Probability float64  `json:"probability"`
}

type fillMaskResponse struct {
	Sentence    string               `json:"sentence"`
	MaskIndex   int                  `json:"mask_index"`
	Predictions []predictionResponse `json:"predictions"`
}

func RegisterRoutes(router *gin.Engine, predictor Predictor) {
	router.GET("/next-sentence-prediction", handleNextSentencePrediction(predictor))
	router.GET("/health/ready", handleReady(predictor))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/fill-mask", handleFillMask(predictor))
	}
}

func handleNextSentencePrediction(predictor Predictor) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := predict(c, predictor)
		if !ok {
			return
		}
		c.String(http.StatusOK, result.Text)
	}
}

func handleFillMask(predictor Predictor) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := predict(c, predictor)
		if !ok {
			return
		}
		resp := fillMaskResponse{
			Sentence:    result.Sentence,
			MaskIndex:   result.MaskIndex,
			Predictions: make([]predictionResponse, len(result.Predictions)),
		}
		for i, p := range result.Predictions {
			resp.Predictions[i] = predictionResponse{
				Index:       p.Index,
				Token:       p.Token,
				Score:       finite(p.Score),
				Probability: p.Probability,
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

func handleReady(predictor Predictor) gin.HandlerFunc {
	return func(c *gin.Context) {
		ready, err := predictor.Ready(c.Request.Context())
		if err != nil || !ready {
			resp := gin.H{"ready": false}
			if err != nil {
				resp["error"] = err.Error()
			}
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ready": true})
	}
}

// predict runs the shared part of both prediction routes and records a failure on the context
func predict(c *gin.Context, predictor Predictor) (*fillmask.Result, bool) {
	sentence := c.Query(sentenceParam)
	if len(sentence) == 0 {
		_ = c.Error(api.NewBadRequestError(sentenceParam + " query parameter is required"))
		return nil, false
	}
	k := 0
	if raw, ok := c.GetQuery(topKParam); ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			_ = c.Error(api.NewBadRequestError(fmt.Sprintf("%s must be an integer, got %q", topKParam, raw)))
			return nil, false
		}
		if v < 1 {
			_ = c.Error(api.NewBadRequestError(fmt.Sprintf("%s must be positive, got %d", topKParam, v)))
			return nil, false
		}
		k = v
	}

	result, err := predictor.Predict(c.Request.Context(), sentence, k)
	if err != nil {
		_ = c.Error(toAPIError(err))
		return nil, false
	}
	return result, true
}

func toAPIError(err error) *api.Error {
	var (
		noMask   *ferrors.NoMaskTokenError
		encoding *ferrors.EncodingError
		invalid  *ferrors.InvalidArgumentError
		backend  *ferrors.InferenceBackendError
	)
	switch {
	case errors.As(err, &noMask), errors.As(err, &encoding), errors.As(err, &invalid):
		return api.NewBadRequestError(err.Error())
	case errors.As(err, &backend):
		if errors.Is(err, context.DeadlineExceeded) || api.GrpcToHttpStatus(backend.Err) == http.StatusGatewayTimeout {
			return api.NewGatewayTimeout(err.Error())
		}
		return api.NewBadGatewayError(err.Error())
	default:
		return api.NewInternalServerError(err.Error())
	}
}

func finite(v float32) *float64 {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
