package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopK(t *testing.T) {
	probs := []float32{0.05, 0.4, 0.1, 0.3, 0.15}
	assert.Equal(t, []int{1, 3, 4}, TopK(probs, 3))
}

func TestTopKDescendingOrder(t *testing.T) {
	probs := []float32{0.01, 0.02, 0.9, 0.03, 0.04}
	top := TopK(probs, 5)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, probs[top[i-1]], probs[top[i]])
	}
}

func TestTopKClampsToVectorLength(t *testing.T) {
	probs := []float32{0.7, 0.3}
	assert.Equal(t, []int{0, 1}, TopK(probs, 5))
}

func TestTopKTiesKeepLowerIndexFirst(t *testing.T) {
	probs := []float32{0.25, 0.25, 0.25, 0.25}
	assert.Equal(t, []int{0, 1, 2, 3}, TopK(probs, 4))
}
