// Package similarity scores captions against reference embeddings.
package similarity

import (
	"context"
	"fmt"
	"math"

	"habitlog-service/internal/embedding"
)

// NoReferenceScore is returned when a habit has no reference embeddings
const NoReferenceScore = -1.0

// Scorer embeds a caption and compares it with reference vectors
type Scorer struct {
	encoder embedding.Encoder
}

// NewScorer creates a scorer backed by encoder
func NewScorer(encoder embedding.Encoder) *Scorer {
	return &Scorer{encoder: encoder}
}

// Score returns the maximum cosine similarity between the caption and refs
func (s *Scorer) Score(ctx context.Context, caption string, refs [][]float64) (float64, error) {
	vec, err := s.encoder.Encode(ctx, caption)
	if err != nil {
		return 0, fmt.Errorf("failed to embed caption: %w", err)
	}

	return MaxCosine(vec, refs), nil
}

// MaxCosine returns the best cosine similarity of query over refs, or
// NoReferenceScore when refs is empty
func MaxCosine(query []float64, refs [][]float64) float64 {
	if len(refs) == 0 {
		return NoReferenceScore
	}

	best := math.Inf(-1)
	for _, ref := range refs {
		if sim := CosineSimilarity(query, ref); sim > best {
			best = sim
		}
	}
	return best
}

// CosineSimilarity calculates cosine similarity between two vectors.
// Vectors of different length or with zero magnitude score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))

	// rounding can push identical vectors slightly past 1
	return math.Max(-1, math.Min(1, sim))
}
