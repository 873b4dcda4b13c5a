package predator

import "github.com/Meesho/BharatMLStack/maskfill/pkg/tensor"

// InferRequest is one ModelInfer call. Inputs are sent in slice order.
type InferRequest struct {
	ModelName    string
	ModelVersion string
	Inputs       []tensor.Descriptor
	Outputs      []string
}

// InferResponse holds the backend outputs in the order the backend returned them
type InferResponse struct {
	ModelName    string
	ModelVersion string
	Outputs      []OutputTensor
}

// OutputTensor carries the raw little-endian bytes of one output
type OutputTensor struct {
	Name     string
	DataType tensor.DataType
	Shape    []int64
	Raw      []byte
}
