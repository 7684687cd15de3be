package gam

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/traject-bio/trajsmooth/core/parallel"
	"github.com/traject-bio/trajsmooth/pkg/errors"
	"github.com/traject-bio/trajsmooth/pkg/log"
)

// parallelGeneThreshold is the gene count below which the batch predictor
// stays sequential.
const parallelGeneThreshold = 32

// PredictSmooth evaluates the container's smoothers for the requested genes
// on nPoints evenly spaced pseudotime values per lineage and returns the
// tidy long-format table: gene-major, lineage-major, grid-point-minor.
//
// Every requested gene must be present in the container; a single unknown
// identifier fails the call before any prediction is computed.
func PredictSmooth(c *SmootherContainer, genes []string, nPoints int) (*SmoothFrame, error) {
	preds, frames, err := predictContainer(c, genes, nPoints)
	if err != nil {
		return nil, err
	}
	slog.Debug("predicted smoothers",
		log.OperationKey, "PredictSmooth",
		log.GenesKey, len(genes),
		log.LineagesKey, c.NLineages(),
		log.PointsKey, nPoints,
		log.LayoutKey, "tidy")
	return assembleTidy(genes, preds, frames), nil
}

// PredictSmoothMatrix is PredictSmooth with the wide layout: one row per
// requested gene, L×nPoints columns named lineage{j}_{p}, lineage-major.
func PredictSmoothMatrix(c *SmootherContainer, genes []string, nPoints int) (*SmoothMatrix, error) {
	preds, frames, err := predictContainer(c, genes, nPoints)
	if err != nil {
		return nil, err
	}
	slog.Debug("predicted smoothers",
		log.OperationKey, "PredictSmoothMatrix",
		log.GenesKey, len(genes),
		log.LineagesKey, c.NLineages(),
		log.PointsKey, nPoints,
		log.LayoutKey, "wide")
	return assembleWide(genes, preds, frames), nil
}

// predictContainer is the shared-basis strategy: resolve genes, build the
// grids, evaluate the shared basis once, then one coefficient product per
// gene. The offset is read once from the first grid row (constant across
// lineages by construction) and added to the linear predictor, not baked
// into the basis.
func predictContainer(c *SmootherContainer, genes []string, nPoints int) ([][]float64, []*GridFrame, error) {
	rows, err := c.coefs.Resolve(genes)
	if err != nil {
		return nil, nil, err
	}

	frames, err := buildGrids(c.design, c.pseudotime, nPoints)
	if err != nil {
		return nil, nil, err
	}

	basis, err := EvaluateBasis(c.knots, c.degree, frames, c.design.Schema())
	if err != nil {
		return nil, nil, err
	}

	var offset float64
	if oc := c.design.Schema().OffsetCol; oc >= 0 {
		offset = frames[0].Rows.At(0, oc)
	}

	br, bc := basis.Dims()
	preds := make([][]float64, len(rows))
	parallel.ParallelizeWithThreshold(len(rows), parallelGeneThreshold, func(start, end int) {
		for g := start; g < end; g++ {
			coef := mat.Row(nil, rows[g], c.coefs.data)
			vals := make([]float64, br)
			for i := 0; i < br; i++ {
				lp := offset
				for j := 0; j < bc; j++ {
					lp += coef[j] * basis.At(i, j)
				}
				vals[i] = math.Exp(lp)
			}
			preds[g] = vals
		}
	})

	return preds, frames, nil
}

// PredictSmoothModels is the per-gene strategy: each requested gene's own
// fitted model predicts on the concatenated grid frames through its own
// basis, offset included by the model itself. Always returns the wide
// layout.
//
// One model is picked from the map as the structural reference for lineage
// detection and grid construction; the pick is whatever map iteration
// yields first. This mirrors the convention that per-gene fits share one
// design, and every requested model is checked against the reference before
// prediction so a heterogeneous collection fails loudly instead of
// misaligning columns.
func PredictSmoothModels(models map[string]*GAM, genes []string, nPoints int) (*SmoothMatrix, error) {
	if len(models) == 0 {
		return nil, errors.NewValidationError("models", "empty model collection", nil)
	}
	if len(genes) == 0 {
		return nil, errors.NewValidationError("genes", "no gene identifiers requested", genes)
	}

	selected := make([]*GAM, len(genes))
	var missing []string
	for i, g := range genes {
		m, ok := models[g]
		if !ok {
			missing = append(missing, g)
			continue
		}
		selected[i] = m
	}
	if len(missing) > 0 {
		return nil, errors.NewGeneNotFoundError("PredictSmoothModels", missing)
	}

	var ref *GAM
	for _, m := range models {
		ref = m
		break
	}
	for i, m := range selected {
		if err := m.checkStructure(genes[i], ref); err != nil {
			return nil, err
		}
	}

	frames, err := buildGrids(ref.design, ref.pseudotime, nPoints)
	if err != nil {
		return nil, err
	}

	preds := make([][]float64, len(selected))
	errs := make([]error, len(selected))
	parallel.ParallelizeWithThreshold(len(selected), parallelGeneThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			preds[i], errs[i] = selected[i].Predict(frames)
		}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	slog.Debug("predicted smoothers",
		log.OperationKey, "PredictSmoothModels",
		log.GenesKey, len(genes),
		log.LineagesKey, ref.design.NLineages(),
		log.PointsKey, nPoints,
		log.LayoutKey, "wide")
	return assembleWide(genes, preds, frames), nil
}
