package engine

import (
	"math"

	"cluster_slots/internal/model"
	"cluster_slots/pkg/rng"
)

// Table pairs symbol kinds with draw weights.
type Table struct {
	Kinds   []model.Symbol
	Weights []float64
}

// Weight returns the weight of kind in the table, 0 if absent.
func (t Table) Weight(kind model.Symbol) float64 {
	for i, k := range t.Kinds {
		if k == kind {
			return t.Weights[i]
		}
	}
	return 0
}

// Sampler draws one kind with P(kind_i) = weight_i / sum(weights).
type Sampler struct {
	src rng.Source
}

func NewSampler(src rng.Source) *Sampler {
	if src == nil {
		src = rng.Default()
	}
	return &Sampler{src: src}
}

func (s *Sampler) Pick(t Table) (model.Symbol, error) {
	total := 0.0
	last := -1
	for i, w := range t.Weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return model.Empty, model.ErrInvalidWeights
		}
		if w > 0 {
			total += w
			last = i
		}
	}
	if last < 0 {
		return model.Empty, model.ErrInvalidWeights
	}

	r := s.src.Float64() * total
	for i, w := range t.Weights {
		if w <= 0 {
			continue
		}
		if r < w {
			return t.Kinds[i], nil
		}
		r -= w
	}
	// float drift on the final bucket
	return t.Kinds[last], nil
}
