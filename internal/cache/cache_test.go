package cache

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prediction struct {
	Index int     `json:"index"`
	Token string  `json:"token"`
	Score float32 `json:"score"`
}

func TestCacheRoundTrip(t *testing.T) {
	c := New("test", 1024*1024, 0)
	defer c.Close()

	in := []prediction{{Index: 9, Token: "mat", Score: 4.5}, {Index: 6, Token: "cat", Score: 1}}
	c.Set("bert|1|2|the [MASK]", in)

	var out []prediction
	require.True(t, c.Get("bert|1|2|the [MASK]", &out))
	assert.Equal(t, in, out)
	assert.Equal(t, int64(1), c.EntryCount())

	assert.True(t, c.Delete("bert|1|2|the [MASK]"))
	assert.False(t, c.Get("bert|1|2|the [MASK]", &out))
}

func TestCacheMiss(t *testing.T) {
	c := New("test", 1024*1024, 60)
	defer c.Close()

	var out prediction
	assert.False(t, c.Get("missing", &out))
}

func TestCacheSkipsUnencodable(t *testing.T) {
	c := New("test", 1024*1024, 60)
	defer c.Close()

	c.Set("nan", prediction{Score: float32(math.NaN())})
	var out prediction
	assert.False(t, c.Get("nan", &out))
	assert.Equal(t, int64(0), c.EntryCount())
}

func TestCacheDropsUndecodable(t *testing.T) {
	c := New("test", 1024*1024, 60)
	defer c.Close()

	c.Set("k", "just a string")
	var out prediction
	assert.False(t, c.Get("k", &out))
	assert.Equal(t, int64(0), c.EntryCount())
}

func TestCloseIsIdempotent(t *testing.T) {
	c := New("test", 1024*1024, 60)
	c.Close()
	assert.NotPanics(t, c.Close)
}
