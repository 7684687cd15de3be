package gam

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/traject-bio/trajsmooth/pkg/errors"
)

// SmoothMatrix is the wide prediction layout: one row per requested gene,
// L×nPoints columns named lineage{j}_{p} (both 1-based), lineage-major then
// grid-point-minor. Column k (0-based) belongs to lineage k/nPoints+1 at
// grid point k%nPoints+1.
type SmoothMatrix struct {
	data    *mat.Dense
	genes   []string
	cols    []string
	nPoints int
	times   [][]float64
}

// Data returns the genes-by-points prediction matrix.
func (m *SmoothMatrix) Data() *mat.Dense { return m.data }

// Genes returns the row labels in request order.
func (m *SmoothMatrix) Genes() []string { return m.genes }

// Columns returns the lineage{j}_{p} column labels.
func (m *SmoothMatrix) Columns() []string { return m.cols }

// NLineages returns the number of lineages covered by the columns.
func (m *SmoothMatrix) NLineages() int { return len(m.times) }

// NPoints returns the grid resolution per lineage.
func (m *SmoothMatrix) NPoints() int { return m.nPoints }

// Times returns the pseudotime grid of one lineage (1-based).
func (m *SmoothMatrix) Times(lineage int) ([]float64, error) {
	if lineage < 1 || lineage > len(m.times) {
		return nil, errors.NewValidationError("lineage",
			fmt.Sprintf("must be between 1 and %d", len(m.times)), lineage)
	}
	return m.times[lineage-1], nil
}

// Tidy reshapes the wide matrix into the long-format table. Values are
// copied unchanged; the (gene, lineage, point) keying is preserved exactly.
func (m *SmoothMatrix) Tidy() *SmoothFrame {
	nLineages := len(m.times)
	total := nLineages * m.nPoints
	frame := newSmoothFrame(len(m.genes) * total)
	for i, gene := range m.genes {
		for k := 0; k < nLineages; k++ {
			for p := 0; p < m.nPoints; p++ {
				frame.Gene = append(frame.Gene, gene)
				frame.Lineage = append(frame.Lineage, k+1)
				frame.Time = append(frame.Time, m.times[k][p])
				frame.Prediction = append(frame.Prediction, m.data.At(i, k*m.nPoints+p))
			}
		}
	}
	return frame
}

// SmoothFrame is the tidy prediction layout: one row per
// (gene, lineage, grid point), gene-major, each gene block lineage-major
// and grid-point-minor. Field slices are parallel and share one length.
type SmoothFrame struct {
	Gene       []string
	Lineage    []int
	Time       []float64
	Prediction []float64
}

func newSmoothFrame(capacity int) *SmoothFrame {
	return &SmoothFrame{
		Gene:       make([]string, 0, capacity),
		Lineage:    make([]int, 0, capacity),
		Time:       make([]float64, 0, capacity),
		Prediction: make([]float64, 0, capacity),
	}
}

// Len returns the number of rows.
func (f *SmoothFrame) Len() int { return len(f.Gene) }

// Wide reshapes the tidy table back into the wide matrix. The frame must
// carry complete, contract-ordered blocks: for every gene, nLineages blocks
// of nPoints rows in lineage order. The inverse of SmoothMatrix.Tidy.
func (f *SmoothFrame) Wide(nLineages, nPoints int) (*SmoothMatrix, error) {
	if nLineages < 1 {
		return nil, errors.NewValidationError("nLineages", "must be at least 1", nLineages)
	}
	if nPoints < 2 {
		return nil, errors.NewValidationError("nPoints", "grid needs at least two points", nPoints)
	}
	block := nLineages * nPoints
	if f.Len() == 0 || f.Len()%block != 0 {
		return nil, errors.NewDimensionError("SmoothFrame.Wide", block, f.Len(), 0)
	}

	nGenes := f.Len() / block
	genes := make([]string, nGenes)
	times := make([][]float64, nLineages)
	data := mat.NewDense(nGenes, block, nil)

	for g := 0; g < nGenes; g++ {
		base := g * block
		genes[g] = f.Gene[base]
		for k := 0; k < nLineages; k++ {
			for p := 0; p < nPoints; p++ {
				row := base + k*nPoints + p
				if f.Gene[row] != genes[g] {
					return nil, errors.NewValidationError("frame",
						fmt.Sprintf("row %d breaks the gene-major block ordering", row), f.Gene[row])
				}
				if f.Lineage[row] != k+1 {
					return nil, errors.NewValidationError("frame",
						fmt.Sprintf("row %d breaks the lineage-major block ordering", row), f.Lineage[row])
				}
				data.Set(g, k*nPoints+p, f.Prediction[row])
			}
		}
	}

	// Grid values come from the first gene's blocks; the contract makes
	// them identical across genes.
	for k := 0; k < nLineages; k++ {
		times[k] = make([]float64, nPoints)
		copy(times[k], f.Time[k*nPoints:(k+1)*nPoints])
	}

	return &SmoothMatrix{
		data:    data,
		genes:   genes,
		cols:    wideColumnNames(nLineages, nPoints),
		nPoints: nPoints,
		times:   times,
	}, nil
}

// assembleWide packs per-gene prediction vectors into the wide matrix.
// No sorting and no rounding: the lineage-major input order is the output
// order.
func assembleWide(genes []string, preds [][]float64, frames []*GridFrame) *SmoothMatrix {
	nPoints := frames[0].NPoints()
	times := make([][]float64, len(frames))
	for k, frame := range frames {
		times[k] = frame.Times
	}

	data := mat.NewDense(len(genes), len(frames)*nPoints, nil)
	for i, vals := range preds {
		data.SetRow(i, vals)
	}

	return &SmoothMatrix{
		data:    data,
		genes:   genes,
		cols:    wideColumnNames(len(frames), nPoints),
		nPoints: nPoints,
		times:   times,
	}
}

// assembleTidy emits the long-format rows gene-major, inheriting the
// lineage-major, grid-point-minor order of the prediction vectors.
func assembleTidy(genes []string, preds [][]float64, frames []*GridFrame) *SmoothFrame {
	total := 0
	for _, frame := range frames {
		total += frame.NPoints()
	}

	f := newSmoothFrame(len(genes) * total)
	for i, gene := range genes {
		idx := 0
		for _, frame := range frames {
			for _, tv := range frame.Times {
				f.Gene = append(f.Gene, gene)
				f.Lineage = append(f.Lineage, frame.Lineage)
				f.Time = append(f.Time, tv)
				f.Prediction = append(f.Prediction, preds[i][idx])
				idx++
			}
		}
	}
	return f
}

func wideColumnNames(nLineages, nPoints int) []string {
	cols := make([]string, 0, nLineages*nPoints)
	for k := 1; k <= nLineages; k++ {
		for p := 1; p <= nPoints; p++ {
			cols = append(cols, fmt.Sprintf("lineage%d_%d", k, p))
		}
	}
	return cols
}
