// Package projection reduces document vectors to two principal components.
package projection

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Components is the number of output dimensions.
const Components = 2

// Reason explains why a projection is unavailable.
type Reason string

// Unavailability reasons.
const (
	ReasonNone                Reason = ""
	ReasonTooFewDocuments     Reason = "too_few_documents"
	ReasonTooFewFeatures      Reason = "too_few_features"
	ReasonDecompositionFailed Reason = "decomposition_failed"
)

// Point is a document position in the projected plane.
type Point struct {
	X, Y float64
}

// Result is a 2-D projection or the reason it could not be computed.
type Result struct {
	points    []Point
	explained [Components]float64
	reason    Reason
}

// Points returns one point per input row, in input order.
func (r *Result) Points() []Point { return r.points }

// ExplainedVariance returns the variance ratio carried by each component.
func (r *Result) ExplainedVariance() [Components]float64 { return r.explained }

// Available reports whether the projection was computed.
func (r *Result) Available() bool { return r.reason == ReasonNone }

// Reason returns why the projection is unavailable.
func (r *Result) Reason() Reason { return r.reason }

// Unavailable returns a result carrying only a reason.
func Unavailable(reason Reason) Result { return Result{reason: reason} }

// Project runs PCA over dense rows of equal length. All-zero columns are
// ignored; at least two rows and two non-zero columns are required.
// Insufficient input is reported in the result, never as a panic.
func Project(rows [][]float64) Result {
	n := len(rows)
	if n < Components {
		return Unavailable(ReasonTooFewDocuments)
	}

	cols := nonZeroColumns(rows)
	if len(cols) < Components {
		return Unavailable(ReasonTooFewFeatures)
	}

	x := mat.NewDense(n, len(cols), nil)
	for i, row := range rows {
		for j, c := range cols {
			if c < len(row) {
				x.Set(i, j, row[c])
			}
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return Unavailable(ReasonDecompositionFailed)
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)
	if _, vc := vecs.Dims(); vc < Components || len(vars) < Components {
		return Unavailable(ReasonTooFewFeatures)
	}

	// center columns; PrincipalComponents does not return the scores
	for j := range cols {
		col := mat.Col(nil, j, x)
		mean := stat.Mean(col, nil)
		for i := range n {
			x.Set(i, j, x.At(i, j)-mean)
		}
	}

	var scores mat.Dense
	scores.Mul(x, vecs.Slice(0, len(cols), 0, Components))

	res := Result{points: make([]Point, n)}
	for i := range n {
		res.points[i] = Point{X: scores.At(i, 0), Y: scores.At(i, 1)}
	}
	var total float64
	for _, v := range vars {
		total += v
	}
	if total > 0 {
		for k := range Components {
			res.explained[k] = vars[k] / total
		}
	}
	return res
}

func nonZeroColumns(rows [][]float64) []int {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	var cols []int
	for c := range width {
		for _, r := range rows {
			if c < len(r) && r[c] != 0 {
				cols = append(cols, c)
				break
			}
		}
	}
	return cols
}
