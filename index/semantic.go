package index

import (
	"math"
	"sort"

	"github.com/poiesic/veritext/core"
)

// Semantic holds one L2-normalized embedding vector per segment.
// Cosine similarity against a normalized query vector reduces to a dot
// product.
type Semantic struct {
	vectors [][]float32
	dim     int
}

// NewSemantic builds a semantic index from raw embedding vectors,
// normalizing each row to unit length. All vectors must share one
// dimensionality.
func NewSemantic(vectors [][]float32) *Semantic {
	normalized := make([][]float32, len(vectors))
	dim := 0
	for i, vec := range vectors {
		normalized[i] = NormalizeVector(vec)
		if len(vec) > dim {
			dim = len(vec)
		}
	}
	return &Semantic{vectors: normalized, dim: dim}
}

// RowCount returns the number of indexed segment vectors.
func (s *Semantic) RowCount() int {
	return len(s.vectors)
}

// Dim returns the embedding dimensionality.
func (s *Semantic) Dim() int {
	return s.dim
}

// Vectors exposes the normalized matrix for persistence. Callers must
// treat the returned rows as read-only.
func (s *Semantic) Vectors() [][]float32 {
	return s.vectors
}

// Score returns, per segment, the cosine similarity of queryVector
// rescaled from [-1,1] to [0,1] via (sim+1)/2 and clipped against
// floating-point overshoot.
func (s *Semantic) Score(queryVector []float32) ([]float64, error) {
	if len(s.vectors) == 0 {
		return nil, core.ErrIndexNotBuilt
	}

	query := NormalizeVector(queryVector)
	scores := make([]float64, len(s.vectors))
	for i, vec := range s.vectors {
		sim := dotProduct(query, vec)
		scores[i] = clip01((sim + 1.0) / 2.0)
	}
	return scores, nil
}

// NormalizeVector returns a unit-length copy of vec. Zero vectors are
// returned as-is.
func NormalizeVector(vec []float32) []float32 {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		out := make([]float32, len(vec))
		copy(out, vec)
		return out
	}
	norm := math.Sqrt(sumSquares)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

func dotProduct(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// TopK selects the k highest-scoring segments from a full score vector
// as transient candidates. Ties keep the lower segment index first.
// k <= 0 or k >= len(scores) returns all segments.
func TopK(scores []float64, k int) []core.Candidate {
	candidates := make([]core.Candidate, len(scores))
	for i, score := range scores {
		candidates[i] = core.Candidate{Index: i, Score: score}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if k > 0 && k < len(candidates) {
		candidates = candidates[:k]
	}
	return candidates
}
