package gam

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/traject-bio/trajsmooth/pkg/errors"
)

// DefaultNPoints is the conventional grid resolution per lineage.
const DefaultNPoints = 100

// BuildGrid constructs the prediction covariate frame for one lineage.
//
// The active lineage's pseudotime column sweeps nPoints evenly spaced values
// over the observed range of cells assigned to that lineage. Every other
// lineage's pseudotime column is pinned to that lineage's own observed
// minimum (a baseline inside the fitted range, not zero, which could sit
// outside the smoother's support). Indicators are one-hot on the active
// lineage. The offset column and any remaining covariates are copied from
// the design's first row: the offset is a fixed design choice, not a
// quantity to vary along pseudotime.
func BuildGrid(lineage int, design *DesignMatrix, pseudotime *mat.Dense, nPoints int) (*GridFrame, error) {
	schema := design.Schema()
	if lineage < 1 || lineage > schema.NLineages {
		return nil, errors.NewValidationError("lineage",
			fmt.Sprintf("must be between 1 and %d", schema.NLineages), lineage)
	}
	if nPoints < 2 {
		return nil, errors.NewValidationError("nPoints", "grid needs at least two points", nPoints)
	}

	dr, dc := design.Data().Dims()
	pr, pc := pseudotime.Dims()
	if pr != dr {
		return nil, errors.NewDimensionError("BuildGrid", dr, pr, 0)
	}
	if pc != schema.NLineages {
		return nil, errors.NewDimensionError("BuildGrid", schema.NLineages, pc, 1)
	}

	mins := make([]float64, schema.NLineages)
	var lo, hi float64
	for k := 0; k < schema.NLineages; k++ {
		minK, maxK, err := lineageRange(design, pseudotime, k)
		if err != nil {
			return nil, err
		}
		mins[k] = minK
		if k == lineage-1 {
			lo, hi = minK, maxK
		}
	}

	times := make([]float64, nPoints)
	floats.Span(times, lo, hi)

	baseline := mat.Row(nil, 0, design.Data())
	rows := mat.NewDense(nPoints, dc, nil)
	for i := 0; i < nPoints; i++ {
		rows.SetRow(i, baseline)
		for k := 0; k < schema.NLineages; k++ {
			rows.Set(i, schema.TimeCols[k], mins[k])
			rows.Set(i, schema.IndicatorCols[k], 0)
		}
		rows.Set(i, schema.TimeCols[lineage-1], times[i])
		rows.Set(i, schema.IndicatorCols[lineage-1], 1)
	}

	return &GridFrame{Lineage: lineage, Times: times, Rows: rows}, nil
}

// lineageRange computes the observed pseudotime range of lineage k
// (0-based) over the cells whose indicator for that lineage is set.
// Off-lineage NaN fillers are skipped.
func lineageRange(design *DesignMatrix, pseudotime *mat.Dense, k int) (float64, float64, error) {
	schema := design.Schema()
	minV, maxV := math.Inf(1), math.Inf(-1)
	n, _ := design.Data().Dims()
	for i := 0; i < n; i++ {
		if design.Data().At(i, schema.IndicatorCols[k]) != 1 {
			continue
		}
		v := pseudotime.At(i, k)
		if math.IsNaN(v) {
			continue
		}
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if math.IsInf(minV, 1) {
		return 0, 0, errors.NewValidationError("pseudotime",
			fmt.Sprintf("lineage %d has no cells with observed pseudotime", k+1), nil)
	}
	return minV, maxV, nil
}

// buildGrids runs BuildGrid for every lineage in order and returns the
// frames lineage-major. Downstream column labelling depends on this order.
func buildGrids(design *DesignMatrix, pseudotime *mat.Dense, nPoints int) ([]*GridFrame, error) {
	frames := make([]*GridFrame, design.NLineages())
	for j := 1; j <= design.NLineages(); j++ {
		frame, err := BuildGrid(j, design, pseudotime, nPoints)
		if err != nil {
			return nil, err
		}
		frames[j-1] = frame
	}
	return frames, nil
}
