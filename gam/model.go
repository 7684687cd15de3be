package gam

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/traject-bio/trajsmooth/pkg/errors"
)

// Smoother is the capability an independently fitted per-gene model exposes:
// prediction at new covariate frames plus access to its own training design
// and pseudotime, which the per-gene path uses to build grids from a
// reference model.
type Smoother interface {
	// Predict evaluates the fitted smoother on the concatenated grid frames
	// and returns response-scale values (inverse link applied, the model's
	// own offset folded in), in frame order.
	Predict(frames []*GridFrame) ([]float64, error)
	// Design returns the model's training design matrix.
	Design() *DesignMatrix
	// Pseudotime returns the model's training pseudotime, one column per
	// lineage.
	Pseudotime() *mat.Dense
}

// GAM is a fitted per-gene additive model with a log link: an intercept,
// one B-spline smooth per lineage gated by the lineage indicator, and a
// fixed offset. Unlike the shared-basis path, the offset lives inside the
// model and is applied by its own Predict.
type GAM struct {
	coefs      []float64
	knots      [][]float64
	degree     int
	offset     float64
	design     *DesignMatrix
	pseudotime *mat.Dense
}

// NewGAM validates a fitted model's pieces against each other and wraps
// them. The coefficient vector must match the basis layout implied by the
// knots and degree; pseudotime must align row-for-row with the design.
func NewGAM(coefs []float64, knots [][]float64, degree int, offset float64, design *DesignMatrix, pseudotime *mat.Dense) (*GAM, error) {
	_, total, err := basisLayout(knots, degree, design.Schema())
	if err != nil {
		return nil, err
	}
	if len(coefs) != total {
		return nil, errors.NewDimensionError("NewGAM", total, len(coefs), 1)
	}

	dr, _ := design.Data().Dims()
	pr, pc := pseudotime.Dims()
	if pr != dr {
		return nil, errors.NewDimensionError("NewGAM", dr, pr, 0)
	}
	if pc != design.NLineages() {
		return nil, errors.NewDimensionError("NewGAM", design.NLineages(), pc, 1)
	}

	return &GAM{
		coefs:      coefs,
		knots:      knots,
		degree:     degree,
		offset:     offset,
		design:     design,
		pseudotime: pseudotime,
	}, nil
}

// Design returns the model's training design matrix.
func (g *GAM) Design() *DesignMatrix { return g.design }

// Pseudotime returns the model's training pseudotime matrix.
func (g *GAM) Pseudotime() *mat.Dense { return g.pseudotime }

// Coefficients returns the fitted coefficient vector.
func (g *GAM) Coefficients() []float64 { return g.coefs }

// Offset returns the model's fixed offset term.
func (g *GAM) Offset() float64 { return g.offset }

// Predict evaluates the smoother on the concatenated grid frames through
// the model's own basis and returns exp(linear predictor + offset).
func (g *GAM) Predict(frames []*GridFrame) ([]float64, error) {
	basis, err := EvaluateBasis(g.knots, g.degree, frames, g.design.Schema())
	if err != nil {
		return nil, err
	}
	r, c := basis.Dims()
	if c != len(g.coefs) {
		return nil, errors.NewDimensionError("GAM.Predict", len(g.coefs), c, 1)
	}

	out := make([]float64, r)
	for i := range out {
		lp := g.offset
		for j := 0; j < c; j++ {
			lp += basis.At(i, j) * g.coefs[j]
		}
		out[i] = math.Exp(lp)
	}
	return out, nil
}

// checkStructure verifies that this model's covariate schema matches the
// reference model of its collection. Column layout, spline degree and the
// per-lineage basis sizes must all agree; values (knot positions, fitted
// coefficients) may differ freely between genes.
func (g *GAM) checkStructure(gene string, ref *GAM) error {
	if !g.design.sameColumns(ref.design) {
		return errors.NewStructuralMismatchError(gene, "design columns",
			fmt.Sprintf("%v", ref.design.Columns()), fmt.Sprintf("%v", g.design.Columns()))
	}
	if g.degree != ref.degree {
		return errors.NewStructuralMismatchError(gene, "spline degree",
			fmt.Sprintf("%d", ref.degree), fmt.Sprintf("%d", g.degree))
	}
	if len(g.knots) != len(ref.knots) {
		return errors.NewStructuralMismatchError(gene, "lineage count",
			fmt.Sprintf("%d", len(ref.knots)), fmt.Sprintf("%d", len(g.knots)))
	}
	for k := range g.knots {
		if len(g.knots[k]) != len(ref.knots[k]) {
			return errors.NewStructuralMismatchError(gene, fmt.Sprintf("lineage %d basis size", k+1),
				fmt.Sprintf("%d knots", len(ref.knots[k])), fmt.Sprintf("%d knots", len(g.knots[k])))
		}
	}
	return nil
}
