package predator

import "context"

type Client interface {
	ModelInfer(ctx context.Context, req *InferRequest) (*InferResponse, error)
	ModelReady(ctx context.Context, modelName, modelVersion string) (bool, error)
}
