package fillmask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocateMask(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   int
		found  bool
	}{
		{"middle", []string{"[CLS]", "the", "[MASK]", "[SEP]"}, 2, true},
		{"first of many", []string{"[MASK]", "a", "[MASK]"}, 0, true},
		{"case sensitive", []string{"[CLS]", "[mask]", "[SEP]"}, -1, false},
		{"partial match", []string{"[MASK]s"}, -1, false},
		{"empty", nil, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LocateMask(tt.tokens, "[MASK]")
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
