package tensor

import (
	"encoding/binary"
	"fmt"
	"math"

	ferrors "github.com/Meesho/BharatMLStack/maskfill/internal/errors"
	"github.com/x448/float16"
)

// EncodeInt64Tensor builds a [1, len(ids)] INT64 descriptor. The ids are copied.
func EncodeInt64Tensor(name string, ids []int64) Descriptor {
	values := make([]int64, len(ids))
	copy(values, ids)
	return Descriptor{
		Name:     name,
		DataType: DataTypeInt64,
		Shape:    []int64{1, int64(len(values))},
		Values:   values,
	}
}

// DecodeFloatBuffer interprets buf as contiguous little-endian IEEE-754 float32 values
func DecodeFloatBuffer(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, &ferrors.MalformedBufferError{Length: len(buf), ElementSize: 4}
	}
	values := make([]float32, len(buf)/4)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4 : (i+1)*4]))
	}
	return values, nil
}

// EncodeFloatBuffer is the inverse of DecodeFloatBuffer
func EncodeFloatBuffer(values []float32) []byte {
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(v))
	}
	return buf
}

// DecodeFloat16Buffer decodes little-endian IEEE-754 half precision values into float32
func DecodeFloat16Buffer(buf []byte) ([]float32, error) {
	if len(buf)%2 != 0 {
		return nil, &ferrors.MalformedBufferError{Length: len(buf), ElementSize: 2}
	}
	values := make([]float32, len(buf)/2)
	for i := range values {
		values[i] = float16.Frombits(binary.LittleEndian.Uint16(buf[i*2 : (i+1)*2])).Float32()
	}
	return values, nil
}

// DecodeBFloat16Buffer decodes little-endian bfloat16 values into float32
func DecodeBFloat16Buffer(buf []byte) ([]float32, error) {
	if len(buf)%2 != 0 {
		return nil, &ferrors.MalformedBufferError{Length: len(buf), ElementSize: 2}
	}
	values := make([]float32, len(buf)/2)
	for i := range values {
		bits := uint32(binary.LittleEndian.Uint16(buf[i*2:(i+1)*2])) << 16
		values[i] = math.Float32frombits(bits)
	}
	return values, nil
}

// DecodeLogits decodes a raw output buffer according to the datatype reported by the backend.
// An empty datatype is treated as FP32.
func DecodeLogits(dataType DataType, buf []byte) ([]float32, error) {
	switch dataType {
	case DataTypeFP32, "":
		return DecodeFloatBuffer(buf)
	case DataTypeFP16:
		return DecodeFloat16Buffer(buf)
	case DataTypeBF16:
		return DecodeBFloat16Buffer(buf)
	default:
		return nil, fmt.Errorf("unsupported logits datatype %s", dataType)
	}
}

// EncodeInt64Buffer packs values as little-endian int64, the layout of raw_input_contents
func EncodeInt64Buffer(values []int64) []byte {
	buf := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:(i+1)*8], uint64(v))
	}
	return buf
}

func DecodeInt64Buffer(buf []byte) ([]int64, error) {
	if len(buf)%8 != 0 {
		return nil, &ferrors.MalformedBufferError{Length: len(buf), ElementSize: 8}
	}
	values := make([]int64, len(buf)/8)
	for i := range values {
		values[i] = int64(binary.LittleEndian.Uint64(buf[i*8 : (i+1)*8]))
	}
	return values, nil
}
