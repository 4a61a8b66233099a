package vectorspace

import (
	"fmt"

	"github.com/kailas-cloud/thesisrec/internal/domain"
)

// Scores returns the cosine similarity of q with every document, in corpus
// order. Vectors are pre-normalized so cosine is a plain dot product.
func (s *Space) Scores(q Vector) ([]float64, error) {
	if q.dim != s.Dim() {
		return nil, fmt.Errorf("%w: query %d vs corpus %d", domain.ErrDimensionMismatch, q.dim, s.Dim())
	}
	dense := q.Dense()
	out := make([]float64, len(s.vectors))
	for d, v := range s.vectors {
		var sum float64
		for k, i := range v.idx {
			sum += v.val[k] * dense[i]
		}
		out[d] = sum
	}
	return out, nil
}

// Row returns the similarity of document i with every document.
func (s *Space) Row(i int) ([]float64, error) {
	if i < 0 || i >= len(s.vectors) {
		return nil, fmt.Errorf("%w: position %d", domain.ErrUnknownSubject, i)
	}
	return s.Scores(s.vectors[i])
}

// Gram returns the pairwise similarity matrix of the given corpus positions.
// A nil positions slice means the whole corpus.
func (s *Space) Gram(positions []int) ([][]float64, error) {
	if positions == nil {
		positions = make([]int, len(s.vectors))
		for i := range positions {
			positions[i] = i
		}
	}
	for _, p := range positions {
		if p < 0 || p >= len(s.vectors) {
			return nil, fmt.Errorf("%w: position %d", domain.ErrUnknownSubject, p)
		}
	}
	g := make([][]float64, len(positions))
	for a := range positions {
		g[a] = make([]float64, len(positions))
	}
	for a, pa := range positions {
		g[a][a] = s.vectors[pa].dot(s.vectors[pa])
		for b := a + 1; b < len(positions); b++ {
			x := s.vectors[pa].dot(s.vectors[positions[b]])
			g[a][b], g[b][a] = x, x
		}
	}
	return g, nil
}
