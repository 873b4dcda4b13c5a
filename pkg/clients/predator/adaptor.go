package predator

import (
	"fmt"

	triton "github.com/Meesho/BharatMLStack/helix-client/pkg/clients/predator/client/grpc"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/tensor"
)

// Adapter maps between the client models and the KServe v2 protobuf messages
type Adapter struct {
	RawInputs bool
}

// MapRequestToProto validates every input and builds the ModelInferRequest
func (a *Adapter) MapRequestToProto(req *InferRequest) (*triton.ModelInferRequest, error) {
	if req == nil {
		return nil, fmt.Errorf("infer request cannot be nil")
	}
	if len(req.ModelName) == 0 {
		return nil, fmt.Errorf("model name cannot be empty")
	}
	if len(req.Inputs) == 0 {
		return nil, fmt.Errorf("infer request for model %s has no inputs", req.ModelName)
	}

	protoReq := &triton.ModelInferRequest{
		ModelName:    req.ModelName,
		ModelVersion: req.ModelVersion,
		Inputs:       make([]*triton.ModelInferRequest_InferInputTensor, 0, len(req.Inputs)),
	}
	if a.RawInputs {
		protoReq.RawInputContents = make([][]byte, 0, len(req.Inputs))
	}

	for _, input := range req.Inputs {
		if err := input.Validate(); err != nil {
			return nil, err
		}
		if input.DataType != tensor.DataTypeInt64 {
			return nil, fmt.Errorf("input %s: only %s inputs are supported, got %s", input.Name, tensor.DataTypeInt64, input.DataType)
		}
		inferInput := &triton.ModelInferRequest_InferInputTensor{
			Name:     input.Name,
			Datatype: input.DataType.String(),
			Shape:    append([]int64(nil), input.Shape...),
		}
		if a.RawInputs {
			protoReq.RawInputContents = append(protoReq.RawInputContents, tensor.EncodeInt64Buffer(input.Values))
		} else {
			inferInput.Contents = &triton.InferTensorContents{
				Int64Contents: append([]int64(nil), input.Values...),
			}
		}
		protoReq.Inputs = append(protoReq.Inputs, inferInput)
	}

	for _, name := range req.Outputs {
		protoReq.Outputs = append(protoReq.Outputs, &triton.ModelInferRequest_InferRequestedOutputTensor{Name: name})
	}
	return protoReq, nil
}

// MapProtoToResponse collects the raw bytes of every output. Backends that answer with typed
// fp32_contents instead of raw_output_contents are re-encoded to little-endian bytes.
func (a *Adapter) MapProtoToResponse(resp *triton.ModelInferResponse) (*InferResponse, error) {
	if resp == nil {
		return nil, fmt.Errorf("infer response cannot be nil")
	}
	if len(resp.Outputs) == 0 {
		return nil, fmt.Errorf("model %s returned no outputs", resp.ModelName)
	}
	if len(resp.RawOutputContents) > 0 && len(resp.RawOutputContents) != len(resp.Outputs) {
		return nil, fmt.Errorf("model %s returned %d outputs but %d raw contents",
			resp.ModelName, len(resp.Outputs), len(resp.RawOutputContents))
	}

	out := &InferResponse{
		ModelName:    resp.ModelName,
		ModelVersion: resp.ModelVersion,
		Outputs:      make([]OutputTensor, 0, len(resp.Outputs)),
	}
	for i, output := range resp.Outputs {
		ot := OutputTensor{
			Name:     output.Name,
			DataType: tensor.DataType(output.Datatype),
			Shape:    output.Shape,
		}
		switch {
		case len(resp.RawOutputContents) > 0:
			ot.Raw = resp.RawOutputContents[i]
		case output.Contents != nil && len(output.Contents.Fp32Contents) > 0:
			ot.Raw = tensor.EncodeFloatBuffer(output.Contents.Fp32Contents)
			ot.DataType = tensor.DataTypeFP32
		}
		out.Outputs = append(out.Outputs, ot)
	}
	return out, nil
}
