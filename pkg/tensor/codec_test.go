package tensor

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	ferrors "github.com/Meesho/BharatMLStack/maskfill/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestEncodeInt64Tensor(t *testing.T) {
	t.Run("builds a single row tensor", func(t *testing.T) {
		ids := []int64{101, 1996, 4937, 102}
		got := EncodeInt64Tensor("input_ids", ids)

		assert.Equal(t, "input_ids", got.Name)
		assert.Equal(t, DataTypeInt64, got.DataType)
		assert.Equal(t, []int64{1, 4}, got.Shape)
		assert.Equal(t, ids, got.Values)
		assert.NoError(t, got.Validate())
	})

	t.Run("copies the input slice", func(t *testing.T) {
		ids := []int64{1, 2, 3}
		got := EncodeInt64Tensor("attention_mask", ids)
		ids[0] = 42
		assert.Equal(t, int64(1), got.Values[0])
	})

	t.Run("empty sequence is a zero width tensor", func(t *testing.T) {
		got := EncodeInt64Tensor("token_type_ids", nil)
		assert.Equal(t, []int64{1, 0}, got.Shape)
		assert.Empty(t, got.Values)
		assert.Equal(t, int64(0), got.NumElements())
		assert.NoError(t, got.Validate())
	})
}

func TestDescriptorValidate(t *testing.T) {
	tests := []struct {
		name    string
		tensor  Descriptor
		wantErr bool
	}{
		{
			name:   "valid",
			tensor: Descriptor{Name: "input_ids", DataType: DataTypeInt64, Shape: []int64{1, 2}, Values: []int64{1, 2}},
		},
		{
			name:    "shape mismatch",
			tensor:  Descriptor{Name: "input_ids", DataType: DataTypeInt64, Shape: []int64{1, 3}, Values: []int64{1, 2}},
			wantErr: true,
		},
		{
			name:    "missing name",
			tensor:  Descriptor{DataType: DataTypeInt64, Shape: []int64{1, 1}, Values: []int64{1}},
			wantErr: true,
		},
		{
			name:    "unknown datatype",
			tensor:  Descriptor{Name: "x", DataType: "UINT4", Shape: []int64{1, 1}, Values: []int64{1}},
			wantErr: true,
		},
		{
			name:    "negative dimension",
			tensor:  Descriptor{Name: "x", DataType: DataTypeInt64, Shape: []int64{-1, -1}, Values: []int64{1}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tensor.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodeFloatBuffer(t *testing.T) {
	t.Run("decodes little endian floats", func(t *testing.T) {
		buf := []byte{
			0, 0, 128, 63, // 1.0
			0, 0, 0, 64, // 2.0
			0, 0, 128, 191, // -1.0
		}
		got, err := DecodeFloatBuffer(buf)
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 2, -1}, got)
	})

	t.Run("round trip preserves bit patterns", func(t *testing.T) {
		source := []float32{0, -0.0, 3.1415927, float32(math.Inf(1)), float32(math.Inf(-1)), math.SmallestNonzeroFloat32, math.MaxFloat32}
		quietNaN := math.Float32frombits(0x7fc00001)
		source = append(source, quietNaN)

		buf := EncodeFloatBuffer(source)
		require.Len(t, buf, 4*len(source))

		got, err := DecodeFloatBuffer(buf)
		require.NoError(t, err)
		require.Len(t, got, len(source))
		for i := range source {
			assert.Equal(t, math.Float32bits(source[i]), math.Float32bits(got[i]), "element %d", i)
		}
	})

	t.Run("empty buffer decodes to no values", func(t *testing.T) {
		got, err := DecodeFloatBuffer([]byte{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("length not a multiple of four is rejected", func(t *testing.T) {
		for _, size := range []int{1, 2, 3, 5, 7, 4097} {
			_, err := DecodeFloatBuffer(make([]byte, size))
			var malformed *ferrors.MalformedBufferError
			require.True(t, errors.As(err, &malformed), "size %d", size)
			assert.Equal(t, size, malformed.Length)
		}
	})
}

func TestInt64BufferRoundTrip(t *testing.T) {
	source := []int64{0, 1, -1, 101, 102, 103, math.MaxInt64, math.MinInt64}
	buf := EncodeInt64Buffer(source)
	assert.Len(t, buf, 8*len(source))
	assert.Equal(t, uint64(101), binary.LittleEndian.Uint64(buf[3*8:4*8]))

	got, err := DecodeInt64Buffer(buf)
	require.NoError(t, err)
	assert.Equal(t, source, got)

	_, err = DecodeInt64Buffer(buf[:9])
	var malformed *ferrors.MalformedBufferError
	assert.True(t, errors.As(err, &malformed))
}

func TestDecodeLogits(t *testing.T) {
	t.Run("fp16", func(t *testing.T) {
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint16(buf[0:2], float16.Fromfloat32(1.5).Bits())
		binary.LittleEndian.PutUint16(buf[2:4], float16.Fromfloat32(-2).Bits())
		got, err := DecodeLogits(DataTypeFP16, buf)
		require.NoError(t, err)
		assert.Equal(t, []float32{1.5, -2}, got)
	})

	t.Run("bf16", func(t *testing.T) {
		// bf16 is the upper half of the float32 representation
		buf := []byte{0x80, 0x3f, 0x00, 0x40}
		got, err := DecodeLogits(DataTypeBF16, buf)
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 2}, got)
	})

	t.Run("empty datatype defaults to fp32", func(t *testing.T) {
		got, err := DecodeLogits("", EncodeFloatBuffer([]float32{0.25}))
		require.NoError(t, err)
		assert.Equal(t, []float32{0.25}, got)
	})

	t.Run("odd half precision buffer", func(t *testing.T) {
		_, err := DecodeLogits(DataTypeFP16, []byte{1, 2, 3})
		var malformed *ferrors.MalformedBufferError
		assert.True(t, errors.As(err, &malformed))
	})

	t.Run("unsupported datatype", func(t *testing.T) {
		_, err := DecodeLogits(DataTypeInt64, make([]byte, 8))
		assert.Error(t, err)
	})
}
