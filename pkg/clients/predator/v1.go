package predator

import (
	"context"
	"io"
	"time"

	triton "github.com/Meesho/BharatMLStack/helix-client/pkg/clients/predator/client/grpc"
	ferrors "github.com/Meesho/BharatMLStack/maskfill/internal/errors"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/grpcclient"
	"github.com/failsafe-go/failsafe-go"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
)

const (
	// Header keys for authentication
	headerCallerID      = "PREDATOR-CALLER-ID"
	headerCallerToken   = "PREDATOR-AUTH-TOKEN"
	predatorServiceName = "predator"
)

type ClientV1 struct {
	adapter     Adapter
	callerId    string
	callerToken string
	deadline    time.Duration
	grpcClient  triton.GRPCInferenceServiceClient
	policies    []failsafe.Policy[any]
	closer      io.Closer
}

// NewClientV1 dials the predator backend described by config
func NewClientV1(config *Config) *ClientV1 {
	validateConfig(config)

	conn := grpcclient.NewConnFromConfig(&grpcclient.Config{
		Host:      config.Host,
		Port:      config.Port,
		PlainText: config.PlainText,
	}, predatorServiceName)
	client := newClientV1(config, conn)
	client.closer = conn
	return client
}

func newClientV1(config *Config, cc grpc.ClientConnInterface) *ClientV1 {
	return &ClientV1{
		adapter:     Adapter{RawInputs: config.RawInputs},
		callerId:    config.CallerId,
		callerToken: config.CallerToken,
		deadline:    time.Duration(config.DeadLine) * time.Millisecond,
		grpcClient:  triton.NewGRPCInferenceServiceClient(cc),
		policies:    buildPolicies(config),
	}
}

// ModelInfer sends one inference request. Transport failures, timeouts and an open
// circuit are all returned as *errors.InferenceBackendError.
func (c *ClientV1) ModelInfer(ctx context.Context, req *InferRequest) (*InferResponse, error) {
	protoReq, err := c.adapter.MapRequestToProto(req)
	if err != nil {
		return nil, err
	}
	if e := log.Debug(); e.Enabled() {
		e.Str("payload", protojson.Format(protoReq)).Msg("predator request")
	}

	ctx = metadata.NewOutgoingContext(ctx, getMetadata(c.callerId, c.callerToken))

	var protoResp *triton.ModelInferResponse
	err = c.execute(func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.deadline)
		defer cancel()
		var callErr error
		protoResp, callErr = c.grpcClient.ModelInfer(attemptCtx, protoReq)
		return callErr
	})
	if err != nil {
		log.Warn().Err(err).
			Str("model_name", protoReq.ModelName).
			Str("model_version", protoReq.ModelVersion).
			Msg("Failed to get inference from predator")
		return nil, &ferrors.InferenceBackendError{ModelName: protoReq.ModelName, Err: err}
	}

	resp, err := c.adapter.MapProtoToResponse(protoResp)
	if err != nil {
		log.Error().Err(err).Str("model_name", protoReq.ModelName).Msg("Failed to map predator response")
		return nil, &ferrors.InferenceBackendError{ModelName: protoReq.ModelName, Err: err}
	}
	log.Debug().Int("outputs", len(resp.Outputs)).Str("model_name", resp.ModelName).Msg("predator response")
	return resp, nil
}

func (c *ClientV1) execute(fn func() error) error {
	if len(c.policies) == 0 {
		return fn()
	}
	return failsafe.Run(fn, c.policies...)
}

// ModelReady asks the backend whether the model version can serve requests
func (c *ClientV1) ModelReady(ctx context.Context, modelName, modelVersion string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.deadline)
	defer cancel()
	ctx = metadata.NewOutgoingContext(ctx, getMetadata(c.callerId, c.callerToken))

	resp, err := c.grpcClient.ModelReady(ctx, &triton.ModelReadyRequest{Name: modelName, Version: modelVersion})
	if err != nil {
		return false, &ferrors.InferenceBackendError{ModelName: modelName, Err: err}
	}
	return resp.GetReady(), nil
}

// Close releases the backend connection
func (c *ClientV1) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

func getMetadata(callerId string, callerToken string) metadata.MD {
	md := metadata.New(nil)
	if len(callerId) > 0 {
		md.Set(headerCallerID, callerId)
	}
	if len(callerToken) > 0 {
		md.Set(headerCallerToken, callerToken)
	}
	return md
}
