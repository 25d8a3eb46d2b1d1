package model

import "sort"

// TopK returns the indices of the k highest values in probs, descending.
// Ties keep the lower class index first so the ordering is deterministic
// across runs with identical model output.
func TopK(probs []float32, k int) []int {
	if k > len(probs) {
		k = len(probs)
	}
	idx := make([]int, len(probs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return probs[idx[a]] > probs[idx[b]]
	})
	return idx[:k]
}
