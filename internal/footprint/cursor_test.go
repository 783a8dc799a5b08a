package footprint

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotate(t *testing.T) {
	tests := []struct {
		length, index, expected int
	}{
		{1, 0, 0},
		{3, 4, 1},
		{3, -1, 2},
		{3, -7, 2},
		{3, 3000, 0},
		{5, 2, 2},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("(%d, %d) -> %d", tc.length, tc.index, tc.expected), func(t *testing.T) {
			assert.Equal(t, tc.expected, Rotate(tc.length, tc.index))
		})
	}
}

func TestRotate_PanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { Rotate(0, 1) })
}
