package gam

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/traject-bio/trajsmooth/pkg/errors"
)

// EvaluateBasis re-expresses grid rows in the spline-basis column space of
// the original fit: one row per grid row, frames concatenated lineage-major,
// columns aligned with the fitted coefficient layout.
//
// The coefficient layout is a leading intercept column followed by one block
// of B-spline basis columns per lineage, each block scaled by that row's
// activation indicator. With one-hot indicators from BuildGrid only the
// active lineage's block is nonzero, matching a fit of the form
// intercept + s(t1)·l1 + ... + s(tL)·lL.
func EvaluateBasis(knots [][]float64, degree int, frames []*GridFrame, schema *LineageSchema) (*mat.Dense, error) {
	sizes, total, err := basisLayout(knots, degree, schema)
	if err != nil {
		return nil, err
	}

	nRows := 0
	for _, frame := range frames {
		r, _ := frame.Rows.Dims()
		nRows += r
	}
	if nRows == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "EvaluateBasis")
	}

	basis := mat.NewDense(nRows, total, nil)
	row := 0
	for _, frame := range frames {
		fr, _ := frame.Rows.Dims()
		for i := 0; i < fr; i++ {
			basis.Set(row, 0, 1) // intercept
			col := 1
			for k := 0; k < schema.NLineages; k++ {
				ind := frame.Rows.At(i, schema.IndicatorCols[k])
				if ind != 0 {
					b := bsplineRow(frame.Rows.At(i, schema.TimeCols[k]), knots[k], degree)
					for j, v := range b {
						basis.Set(row, col+j, ind*v)
					}
				}
				col += sizes[k]
			}
			row++
		}
	}

	return basis, nil
}

// basisLayout validates the per-lineage knot vectors and returns the number
// of basis functions per lineage plus the total coefficient count including
// the intercept.
func basisLayout(knots [][]float64, degree int, schema *LineageSchema) ([]int, int, error) {
	if degree < 1 {
		return nil, 0, errors.NewValidationError("degree", "spline degree must be at least 1", degree)
	}
	if len(knots) != schema.NLineages {
		return nil, 0, errors.NewDimensionError("basisLayout", schema.NLineages, len(knots), 1)
	}

	sizes := make([]int, len(knots))
	total := 1 // intercept
	for k, kv := range knots {
		if len(kv) < degree+2 {
			return nil, 0, errors.NewValidationError("knots",
				fmt.Sprintf("lineage %d: knot vector of length %d is too short for degree %d", k+1, len(kv), degree), kv)
		}
		if !sort.Float64sAreSorted(kv) {
			return nil, 0, errors.NewValidationError("knots",
				fmt.Sprintf("lineage %d: knot vector must be nondecreasing", k+1), kv)
		}
		sizes[k] = len(kv) - degree - 1
		total += sizes[k]
	}
	return sizes, total, nil
}

// bsplineRow evaluates all B-spline basis functions defined by the knot
// vector at x via the Cox-de Boor recursion. x is clamped to the basis
// support so grid endpoints never fall into an empty span.
func bsplineRow(x float64, knots []float64, degree int) []float64 {
	m := len(knots)
	n := m - degree - 1
	lo := knots[degree]
	hi := knots[m-degree-1]
	if x < lo {
		x = lo
	}
	if x > hi {
		x = hi
	}

	work := make([]float64, m-1)
	if x == hi {
		// Right-closed convention: the last non-degenerate span owns hi.
		for i := m - 2; i >= 0; i-- {
			if knots[i] < knots[i+1] {
				work[i] = 1
				break
			}
		}
	} else {
		for i := 0; i < m-1; i++ {
			if x >= knots[i] && x < knots[i+1] {
				work[i] = 1
				break
			}
		}
	}

	for d := 1; d <= degree; d++ {
		for i := 0; i < m-d-1; i++ {
			var v float64
			if den := knots[i+d] - knots[i]; den > 0 {
				v += (x - knots[i]) / den * work[i]
			}
			if den := knots[i+d+1] - knots[i+1]; den > 0 {
				v += (knots[i+d+1] - x) / den * work[i+1]
			}
			work[i] = v
		}
	}

	return work[:n]
}
