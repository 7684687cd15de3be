package gam

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/traject-bio/trajsmooth/pkg/errors"
)

// CoefficientTable holds fitted coefficients for many genes: one row per
// gene, columns aligned with the basis layout of EvaluateBasis. Owned by the
// upstream fitting step; read-only here.
type CoefficientTable struct {
	data  *mat.Dense
	genes []string
	index map[string]int
}

// NewCoefficientTable validates the gene labels against the matrix height
// and builds the name index once.
func NewCoefficientTable(data *mat.Dense, genes []string) (*CoefficientTable, error) {
	r, _ := data.Dims()
	if r == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "NewCoefficientTable")
	}
	if r != len(genes) {
		return nil, errors.NewDimensionError("NewCoefficientTable", len(genes), r, 0)
	}
	index := make(map[string]int, len(genes))
	for i, g := range genes {
		if _, dup := index[g]; dup {
			return nil, errors.NewValidationError("genes", "duplicate gene identifier", g)
		}
		index[g] = i
	}
	return &CoefficientTable{data: data, genes: genes, index: index}, nil
}

// Data returns the underlying genes-by-coefficients matrix.
func (t *CoefficientTable) Data() *mat.Dense { return t.data }

// Genes returns the ordered gene identifiers.
func (t *CoefficientTable) Genes() []string { return t.genes }

// Resolve maps gene identifiers to row indices. All-or-nothing: a single
// unknown identifier fails the whole lookup before any prediction work.
func (t *CoefficientTable) Resolve(genes []string) ([]int, error) {
	if len(genes) == 0 {
		return nil, errors.NewValidationError("genes", "no gene identifiers requested", genes)
	}
	rows := make([]int, len(genes))
	var missing []string
	for i, g := range genes {
		row, ok := t.index[g]
		if !ok {
			missing = append(missing, g)
			continue
		}
		rows[i] = row
	}
	if len(missing) > 0 {
		return nil, errors.NewGeneNotFoundError("CoefficientTable.Resolve", missing)
	}
	return rows, nil
}

// SmootherContainer bundles everything the shared-basis prediction path
// needs: the coefficient table, the shared training design, the smoother
// parameterization (per-lineage knot vectors plus spline degree) and the
// per-lineage pseudotime of the training cells. All views are read-only.
type SmootherContainer struct {
	coefs      *CoefficientTable
	design     *DesignMatrix
	knots      [][]float64
	degree     int
	pseudotime *mat.Dense
}

// NewSmootherContainer cross-validates the pieces once at load time:
// one knot vector per lineage, coefficient width matching the basis layout,
// pseudotime aligned row-for-row with the design.
func NewSmootherContainer(coefs *CoefficientTable, design *DesignMatrix, knots [][]float64, degree int, pseudotime *mat.Dense) (*SmootherContainer, error) {
	_, total, err := basisLayout(knots, degree, design.Schema())
	if err != nil {
		return nil, err
	}
	_, cc := coefs.data.Dims()
	if cc != total {
		return nil, errors.NewDimensionError("NewSmootherContainer", total, cc, 1)
	}

	dr, _ := design.Data().Dims()
	pr, pc := pseudotime.Dims()
	if pr != dr {
		return nil, errors.NewDimensionError("NewSmootherContainer", dr, pr, 0)
	}
	if pc != design.NLineages() {
		return nil, errors.NewDimensionError("NewSmootherContainer", design.NLineages(), pc, 1)
	}

	return &SmootherContainer{
		coefs:      coefs,
		design:     design,
		knots:      knots,
		degree:     degree,
		pseudotime: pseudotime,
	}, nil
}

// Coefficients returns the gene-indexable coefficient table.
func (c *SmootherContainer) Coefficients() *CoefficientTable { return c.coefs }

// Design returns the shared training design matrix.
func (c *SmootherContainer) Design() *DesignMatrix { return c.design }

// Knots returns the per-lineage knot vectors of the fitted smoothers.
func (c *SmootherContainer) Knots() [][]float64 { return c.knots }

// Degree returns the spline degree of the fitted smoothers.
func (c *SmootherContainer) Degree() int { return c.degree }

// Pseudotime returns the cells-by-lineages pseudotime matrix.
func (c *SmootherContainer) Pseudotime() *mat.Dense { return c.pseudotime }

// NLineages returns the number of lineages in the container's design.
func (c *SmootherContainer) NLineages() int { return c.design.NLineages() }

func (c *SmootherContainer) String() string {
	g := len(c.coefs.genes)
	return fmt.Sprintf("SmootherContainer{genes: %d, lineages: %d, degree: %d}", g, c.NLineages(), c.degree)
}
