package main

import (
	"context"
	"crypto/sha256"
	"encoding/binary"

	triton "github.com/Meesho/BharatMLStack/helix-client/pkg/clients/predator/client/grpc"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/tensor"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const inputIdsName = "input_ids"

// server answers ModelInfer with deterministic logits of shape [1, seq, vocab]
type server struct {
	triton.UnimplementedGRPCInferenceServiceServer
	vocabSize int
	ready     bool
}

func (s *server) ModelInfer(ctx context.Context, req *triton.ModelInferRequest) (*triton.ModelInferResponse, error) {
	ids, err := inputIds(req)
	if err != nil {
		return nil, err
	}
	log.Debug().Msgf("ModelInfer for model %s with %d input ids", req.ModelName, len(ids))

	logits := generateLogits(ids, s.vocabSize)
	raw := tensor.EncodeFloatBuffer(logits)
	shape := []int64{1, int64(len(ids)), int64(s.vocabSize)}

	response := &triton.ModelInferResponse{
		ModelName:    req.ModelName,
		ModelVersion: req.ModelVersion,
		Id:           req.Id,
	}
	outputs := req.Outputs
	if len(outputs) == 0 {
		outputs = []*triton.ModelInferRequest_InferRequestedOutputTensor{{Name: "logits"}}
	}
	for _, out := range outputs {
		response.Outputs = append(response.Outputs, &triton.ModelInferResponse_InferOutputTensor{
			Name:     out.Name,
			Datatype: string(tensor.DataTypeFP32),
			Shape:    shape,
		})
		response.RawOutputContents = append(response.RawOutputContents, raw)
	}
	return response, nil
}

func (s *server) ModelReady(ctx context.Context, req *triton.ModelReadyRequest) (*triton.ModelReadyResponse, error) {
	return &triton.ModelReadyResponse{Ready: s.ready}, nil
}

func (s *server) ServerLive(ctx context.Context, req *triton.ServerLiveRequest) (*triton.ServerLiveResponse, error) {
	return &triton.ServerLiveResponse{Live: true}, nil
}

func (s *server) ServerReady(ctx context.Context, req *triton.ServerReadyRequest) (*triton.ServerReadyResponse, error) {
	return &triton.ServerReadyResponse{Ready: s.ready}, nil
}

func (s *server) ServerMetadata(ctx context.Context, req *triton.ServerMetadataRequest) (*triton.ServerMetadataResponse, error) {
	return &triton.ServerMetadataResponse{
		Name:    "predator-mock",
		Version: "1.0.0",
	}, nil
}

// inputIds reads input_ids from typed contents first, then from the raw buffer at the same index
func inputIds(req *triton.ModelInferRequest) ([]int64, error) {
	for i, input := range req.Inputs {
		if input.Name != inputIdsName {
			continue
		}
		if input.Datatype != string(tensor.DataTypeInt64) {
			return nil, status.Errorf(codes.InvalidArgument, "%s must be INT64, got %s", inputIdsName, input.Datatype)
		}
		if input.Contents != nil && len(input.Contents.Int64Contents) > 0 {
			return input.Contents.Int64Contents, nil
		}
		if i < len(req.RawInputContents) {
			ids, err := tensor.DecodeInt64Buffer(req.RawInputContents[i])
			if err != nil {
				return nil, status.Errorf(codes.InvalidArgument, "bad raw %s: %v", inputIdsName, err)
			}
			return ids, nil
		}
		return nil, status.Errorf(codes.InvalidArgument, "%s carries no contents", inputIdsName)
	}
	return nil, status.Errorf(codes.InvalidArgument, "missing input %s", inputIdsName)
}

// seed hashes the ids so the same sentence always yields the same logits
func seed(ids []int64) uint64 {
	h := sha256.New()
	b := make([]byte, 8)
	for _, id := range ids {
		binary.LittleEndian.PutUint64(b, uint64(id))
		h.Write(b)
	}
	return binary.LittleEndian.Uint64(h.Sum(nil)[:8])
}

func generateLogits(ids []int64, vocabSize int) []float32 {
	base := seed(ids)
	logits := make([]float32, len(ids)*vocabSize)
	for p := range ids {
		rowSeed := base + uint64(p)*7919
		row := logits[p*vocabSize : (p+1)*vocabSize]
		for v := range row {
			x := (uint64(v)+1)*0x9E3779B97F4A7C15 ^ rowSeed
			x ^= x >> 29
			row[v] = float32(x%100000)/10000 - 5
		}
	}
	return logits
}
