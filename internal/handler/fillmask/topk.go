package fillmask

import (
	"fmt"
	"math"

	ferrors "github.com/Meesho/BharatMLStack/maskfill/internal/errors"
	"github.com/emirpasic/gods/trees/binaryheap"
)

type candidate struct {
	index int
	score float32
}

func isNaN(v float32) bool {
	return v != v
}

// better orders candidates by score descending. NaN ranks below every real value,
// -Inf included, and equal scores prefer the lower index.
func better(a, b candidate) bool {
	aNaN, bNaN := isNaN(a.score), isNaN(b.score)
	switch {
	case aNaN && bNaN:
		return a.index < b.index
	case aNaN:
		return false
	case bNaN:
		return true
	case a.score != b.score:
		return a.score > b.score
	default:
		return a.index < b.index
	}
}

// worstFirst keeps the weakest retained candidate at the top of the heap
func worstFirst(x, y interface{}) int {
	a, b := x.(candidate), y.(candidate)
	switch {
	case better(b, a):
		return -1
	case better(a, b):
		return 1
	default:
		return 0
	}
}

func row(logits []float32, maskPosition, vocabSize int) ([]float32, error) {
	if vocabSize < 1 {
		return nil, &ferrors.IndexOutOfRangeError{ErrorMsg: fmt.Sprintf("vocab size %d must be positive", vocabSize)}
	}
	if maskPosition < 0 {
		return nil, &ferrors.IndexOutOfRangeError{ErrorMsg: fmt.Sprintf("mask position %d is negative", maskPosition)}
	}
	// compare by division so large positions cannot overflow the offset
	if maskPosition >= len(logits)/vocabSize {
		return nil, &ferrors.IndexOutOfRangeError{ErrorMsg: fmt.Sprintf(
			"row %d of width %d is outside %d logits", maskPosition, vocabSize, len(logits))}
	}
	offset := maskPosition * vocabSize
	return logits[offset : offset+vocabSize], nil
}

// TopK returns the k highest scoring vocabulary indices of row maskPosition, best first.
// The logits are never modified and the result does not alias them.
func TopK(logits []float32, maskPosition, vocabSize, k int) ([]int, error) {
	scores, err := row(logits, maskPosition, vocabSize)
	if err != nil {
		return nil, err
	}
	if k < 1 || k > vocabSize {
		return nil, &ferrors.InvalidArgumentError{ErrorMsg: fmt.Sprintf("k %d must be within [1, %d]", k, vocabSize)}
	}

	heap := binaryheap.NewWith(worstFirst)
	for i, score := range scores {
		c := candidate{index: i, score: score}
		if heap.Size() < k {
			heap.Push(c)
			continue
		}
		top, _ := heap.Peek()
		if better(c, top.(candidate)) {
			heap.Pop()
			heap.Push(c)
		}
	}

	indices := make([]int, heap.Size())
	for i := len(indices) - 1; i >= 0; i-- {
		v, _ := heap.Pop()
		indices[i] = v.(candidate).index
	}
	return indices, nil
}

// Softmax returns the probability of each index in indices under a softmax over the
// whole row. NaN entries carry no probability mass.
func Softmax(logits []float32, maskPosition, vocabSize int, indices []int) ([]float64, error) {
	scores, err := row(logits, maskPosition, vocabSize)
	if err != nil {
		return nil, err
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(scores) {
			return nil, &ferrors.IndexOutOfRangeError{ErrorMsg: fmt.Sprintf("index %d outside row of width %d", idx, len(scores))}
		}
	}

	maxScore := math.Inf(-1)
	posInf := 0
	for _, s := range scores {
		v := float64(s)
		if math.IsNaN(v) {
			continue
		}
		if math.IsInf(v, 1) {
			posInf++
		}
		if v > maxScore {
			maxScore = v
		}
	}

	probs := make([]float64, len(indices))
	switch {
	case posInf > 0:
		for i, idx := range indices {
			if math.IsInf(float64(scores[idx]), 1) {
				probs[i] = 1 / float64(posInf)
			}
		}
		return probs, nil
	case math.IsInf(maxScore, -1):
		return probs, nil
	}

	var sum float64
	for _, s := range scores {
		if !isNaN(s) {
			sum += math.Exp(float64(s) - maxScore)
		}
	}
	for i, idx := range indices {
		if s := scores[idx]; !isNaN(s) {
			probs[i] = math.Exp(float64(s)-maxScore) / sum
		}
	}
	return probs, nil
}
