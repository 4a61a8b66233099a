package vectorspace

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/thesisrec/internal/domain"
)

// Vector is a sparse vector over a vocabulary. Indices are strictly increasing.
type Vector struct {
	dim int
	idx []int
	val []float64
}

// newVector builds a vector from dense term weights, keeping non-zero entries.
func newVector(dense []float64) Vector {
	v := Vector{dim: len(dense)}
	for i, w := range dense {
		if w != 0 {
			v.idx = append(v.idx, i)
			v.val = append(v.val, w)
		}
	}
	return v
}

// Dim returns the vocabulary size the vector was built against.
func (v Vector) Dim() int { return v.dim }

// NonZero returns the number of stored entries.
func (v Vector) NonZero() int { return len(v.idx) }

// IsZero reports whether every component is zero.
func (v Vector) IsZero() bool { return len(v.idx) == 0 }

// At returns the component at vocabulary index i.
func (v Vector) At(i int) float64 {
	lo, hi := 0, len(v.idx)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case v.idx[mid] == i:
			return v.val[mid]
		case v.idx[mid] < i:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0
}

// Norm returns the Euclidean norm.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.val {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot returns the inner product. Both vectors must share a vocabulary.
func (v Vector) Dot(o Vector) (float64, error) {
	if v.dim != o.dim {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, v.dim, o.dim)
	}
	return v.dot(o), nil
}

func (v Vector) dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.idx) && j < len(o.idx) {
		switch {
		case v.idx[i] == o.idx[j]:
			sum += v.val[i] * o.val[j]
			i++
			j++
		case v.idx[i] < o.idx[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Dense expands the vector into a slice of length Dim.
func (v Vector) Dense() []float64 {
	out := make([]float64, v.dim)
	for k, i := range v.idx {
		out[i] = v.val[k]
	}
	return out
}

// normalized divides every component by the L2 norm. 0/0 is 0.
func (v Vector) normalized() Vector {
	n := v.Norm()
	if n == 0 {
		return Vector{dim: v.dim}
	}
	out := Vector{dim: v.dim, idx: v.idx, val: make([]float64, len(v.val))}
	for k, x := range v.val {
		out.val[k] = x / n
	}
	return out
}
