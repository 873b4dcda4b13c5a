package fillmask

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	ferrors "github.com/Meesho/BharatMLStack/maskfill/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteForceTopK sorts the whole row by score descending, NaN last, then by index
func bruteForceTopK(scores []float32, k int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		sa, sb := float64(scores[idx[a]]), float64(scores[idx[b]])
		aNaN, bNaN := math.IsNaN(sa), math.IsNaN(sb)
		if aNaN != bNaN {
			return bNaN
		}
		if !aNaN && sa != sb {
			return sa > sb
		}
		return idx[a] < idx[b]
	})
	return idx[:k]
}

func TestTopK_SizeAndOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		vocabSize := 1 + rng.Intn(200)
		scores := make([]float32, vocabSize)
		for i := range scores {
			scores[i] = rng.Float32()*20 - 10
		}
		k := 1 + rng.Intn(vocabSize)

		got, err := TopK(scores, 0, vocabSize, k)
		require.NoError(t, err)
		require.Len(t, got, k)

		seen := make(map[int]bool, k)
		for i, idx := range got {
			assert.False(t, seen[idx], "duplicate index %d", idx)
			seen[idx] = true
			if i > 0 {
				assert.GreaterOrEqual(t, scores[got[i-1]], scores[idx])
			}
		}
		assert.Equal(t, bruteForceTopK(scores, k), got)
	}
}

func TestTopK_MatchesSortWithTiesAndNaN(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	levels := []float32{-1, 0, 0.5, 2, float32(math.Inf(1)), float32(math.Inf(-1)), float32(math.NaN())}
	for trial := 0; trial < 500; trial++ {
		vocabSize := 1 + rng.Intn(64)
		scores := make([]float32, vocabSize)
		for i := range scores {
			scores[i] = levels[rng.Intn(len(levels))]
		}
		k := 1 + rng.Intn(vocabSize)

		got, err := TopK(scores, 0, vocabSize, k)
		require.NoError(t, err)
		assert.Equal(t, bruteForceTopK(scores, k), got, "scores %v k %d", scores, k)
	}
}

func TestTopK_AdversarialRows(t *testing.T) {
	tests := []struct {
		name   string
		scores []float32
		k      int
		want   []int
	}{
		{
			name:   "all equal keeps lowest indices",
			scores: []float32{1, 1, 1, 1, 1},
			k:      3,
			want:   []int{0, 1, 2},
		},
		{
			name:   "ascending row",
			scores: []float32{0, 1, 2, 3, 4, 5},
			k:      2,
			want:   []int{5, 4},
		},
		{
			name:   "descending row",
			scores: []float32{5, 4, 3, 2, 1, 0},
			k:      2,
			want:   []int{0, 1},
		},
		{
			name:   "later tie does not evict earlier",
			scores: []float32{0, 3, 2, 3, 3},
			k:      2,
			want:   []int{1, 3},
		},
		{
			name:   "infinities",
			scores: []float32{float32(math.Inf(-1)), 0, float32(math.Inf(1)), -5},
			k:      4,
			want:   []int{2, 1, 3, 0},
		},
		{
			name:   "nan ranks below negative infinity",
			scores: []float32{float32(math.NaN()), float32(math.Inf(-1)), 1},
			k:      2,
			want:   []int{2, 1},
		},
		{
			name:   "nan only when not enough real values",
			scores: []float32{float32(math.NaN()), 2, float32(math.NaN())},
			k:      3,
			want:   []int{1, 0, 2},
		},
		{
			name:   "k equals vocab size",
			scores: []float32{0.2, 0.9, 0.1},
			k:      3,
			want:   []int{1, 0, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TopK(tt.scores, 0, len(tt.scores), tt.k)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTopK_RowIsolation(t *testing.T) {
	const vocabSize = 10
	logits := make([]float32, 3*vocabSize)
	for i := range logits {
		logits[i] = float32(i)
	}
	before := append([]float32(nil), logits...)

	got, err := TopK(logits, 1, vocabSize, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{9, 8, 7}, got)

	// rows 0 and 2 change, row 1 stays
	for i := 0; i < vocabSize; i++ {
		logits[i] = 1000
		logits[2*vocabSize+i] = -1000
	}
	again, err := TopK(logits, 1, vocabSize, 3)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	for i := vocabSize; i < 2*vocabSize; i++ {
		assert.Equal(t, before[i], logits[i])
	}
}

func TestTopK_Scenario(t *testing.T) {
	const (
		vocabSize    = 30522
		seqLen       = 9
		maskPosition = 6
	)
	logits := make([]float32, seqLen*vocabSize)
	for i := range logits {
		logits[i] = -1
	}
	offset := maskPosition * vocabSize
	logits[offset+101] = 9.5
	logits[offset+2057] = 8.25
	logits[offset+3000] = 7
	logits[offset+9999] = 6.5
	logits[offset+50] = 6
	// a larger value on another row must not leak in
	logits[5*vocabSize+42] = 100

	got, err := TopK(logits, maskPosition, vocabSize, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{101, 2057, 3000, 9999, 50}, got)
}

func TestTopK_Preconditions(t *testing.T) {
	logits := make([]float32, 20)

	var outOfRange *ferrors.IndexOutOfRangeError
	_, err := TopK(logits, -1, 10, 1)
	assert.True(t, errors.As(err, &outOfRange))
	_, err = TopK(logits, 2, 10, 1)
	assert.True(t, errors.As(err, &outOfRange))
	_, err = TopK(logits, 0, 0, 1)
	assert.True(t, errors.As(err, &outOfRange))

	assert.NotPanics(t, func() {
		_, err = TopK(make([]float32, 16), math.MaxInt/2, 4, 1)
	})
	assert.True(t, errors.As(err, &outOfRange))
	assert.NotPanics(t, func() {
		_, err = Softmax(make([]float32, 16), math.MaxInt/2, 4, []int{0})
	})
	assert.True(t, errors.As(err, &outOfRange))
	_, err = TopK(make([]float32, 19), 1, 10, 1)
	assert.True(t, errors.As(err, &outOfRange))

	var invalid *ferrors.InvalidArgumentError
	_, err = TopK(logits, 1, 10, 0)
	assert.True(t, errors.As(err, &invalid))
	_, err = TopK(logits, 1, 10, 11)
	assert.True(t, errors.As(err, &invalid))
}

func TestSoftmax(t *testing.T) {
	scores := []float32{0, float32(math.Log(3)), float32(math.NaN())}
	probs, err := Softmax(scores, 0, 3, []int{1, 0, 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, probs[0], 1e-6)
	assert.InDelta(t, 0.25, probs[1], 1e-6)
	assert.Equal(t, 0.0, probs[2])

	probs, err = Softmax([]float32{float32(math.Inf(1)), 1, float32(math.Inf(1))}, 0, 3, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0}, probs)

	_, err = Softmax(scores, 0, 3, []int{3})
	assert.Error(t, err)
}
