// Package similarity detects stalled work by comparing the embeddings of
// consecutive updates.
package similarity

import (
	"fmt"
	"math"
)

// Cosine returns the cosine similarity of a and b in [-1,1]. A zero vector
// has similarity 0 with anything.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%d vs %d: %w", len(a), len(b), ErrDimensionMismatch)
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(-1, math.Min(1, sim)), nil
}
