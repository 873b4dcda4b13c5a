package tensor

import (
	"fmt"
)

// DataType is the KServe v2 datatype string of a tensor
type DataType string

const (
	DataTypeInt64 DataType = "INT64"
	DataTypeFP32  DataType = "FP32"
	DataTypeFP16  DataType = "FP16"
	DataTypeBF16  DataType = "BF16"
)

// Element size lookup table
var elementSizeMap = map[DataType]int{
	DataTypeInt64: 8,
	DataTypeFP32:  4,
	DataTypeFP16:  2,
	DataTypeBF16:  2,
}

// ElementSize returns the byte width of one element, -1 for unknown datatypes
func (d DataType) ElementSize() int {
	if size, ok := elementSizeMap[d]; ok {
		return size
	}
	return -1
}

func (d DataType) String() string {
	return string(d)
}

// Descriptor is one named tensor of an inference request
type Descriptor struct {
	Name     string
	DataType DataType
	Shape    []int64
	Values   []int64
}

// NumElements returns the product of all shape dimensions
func (t Descriptor) NumElements() int64 {
	elements := int64(1)
	for _, dim := range t.Shape {
		elements *= dim
	}
	return elements
}

// Validate checks that the shape covers exactly the values held by the descriptor
func (t Descriptor) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("tensor name cannot be empty")
	}
	if t.DataType.ElementSize() < 0 {
		return fmt.Errorf("tensor %s has unsupported datatype %s", t.Name, t.DataType)
	}
	for _, dim := range t.Shape {
		if dim < 0 {
			return fmt.Errorf("tensor %s has negative dimension in shape %v", t.Name, t.Shape)
		}
	}
	if elements := t.NumElements(); elements != int64(len(t.Values)) {
		return fmt.Errorf("tensor %s shape %v holds %d elements, got %d values", t.Name, t.Shape, elements, len(t.Values))
	}
	return nil
}
