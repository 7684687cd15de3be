package gam

import (
	"gonum.org/v1/gonum/mat"

	"github.com/traject-bio/trajsmooth/pkg/errors"
)

// DesignMatrix is the covariate matrix a model was fitted against, with its
// ordered column names and the lineage schema detected from them. Rows are
// cells, columns are covariates. Read-only after construction.
type DesignMatrix struct {
	data   *mat.Dense
	cols   []string
	schema *LineageSchema
}

// NewDesignMatrix validates the column labels against the matrix width,
// detects the lineage schema and wraps the pieces up.
func NewDesignMatrix(data *mat.Dense, cols []string) (*DesignMatrix, error) {
	r, c := data.Dims()
	if r == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "NewDesignMatrix")
	}
	if c != len(cols) {
		return nil, errors.NewDimensionError("NewDesignMatrix", len(cols), c, 1)
	}
	schema, err := DetectSchema(cols)
	if err != nil {
		return nil, err
	}
	return &DesignMatrix{data: data, cols: cols, schema: schema}, nil
}

// Data returns the underlying matrix.
func (d *DesignMatrix) Data() *mat.Dense { return d.data }

// Columns returns the ordered column names.
func (d *DesignMatrix) Columns() []string { return d.cols }

// Schema returns the detected lineage schema.
func (d *DesignMatrix) Schema() *LineageSchema { return d.schema }

// NLineages returns the number of lineages encoded in the design.
func (d *DesignMatrix) NLineages() int { return d.schema.NLineages }

// sameColumns reports whether two designs share the exact column layout.
func (d *DesignMatrix) sameColumns(other *DesignMatrix) bool {
	if len(d.cols) != len(other.cols) {
		return false
	}
	for i, name := range d.cols {
		if other.cols[i] != name {
			return false
		}
	}
	return true
}

// GridFrame is the synthetic covariate frame for one lineage: nPoints rows
// in the same column layout as the training design, with the active
// lineage's pseudotime swept over its observed range, all other lineages
// pinned to their baselines and the indicator one-hot on the active lineage.
type GridFrame struct {
	// Lineage is the 1-based index of the active lineage.
	Lineage int
	// Times holds the evenly spaced pseudotime grid values.
	Times []float64
	// Rows holds the assembled covariate rows, one per grid value.
	Rows *mat.Dense
}

// NPoints returns the number of grid points.
func (f *GridFrame) NPoints() int { return len(f.Times) }
