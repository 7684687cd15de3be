package gam

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/traject-bio/trajsmooth/pkg/errors"
)

// FormatVersion is the accepted version of the JSON model exchange format.
// Fitted GAMs originate in other ecosystems; the exporter there writes this
// format, we only read and re-emit it.
const FormatVersion = "1.0"

// containerJSON is the on-disk form of a SmootherContainer. Design and
// coefficient matrices are nested row-major; pseudotime cells use null for
// the off-lineage filler since JSON has no NaN.
type containerJSON struct {
	FormatVersion string       `json:"format_version"`
	Columns       []string     `json:"columns"`
	Design        [][]float64  `json:"design"`
	Pseudotime    [][]*float64 `json:"pseudotime"`
	Degree        int          `json:"degree"`
	Knots         [][]float64  `json:"knots"`
	Genes         []string     `json:"genes"`
	Coefficients  [][]float64  `json:"coefficients"`
}

// gamJSON is one per-gene model inside a collection export. The design,
// knots and degree are shared at the collection level; only the fitted
// coefficients and the offset differ per gene.
type gamJSON struct {
	Offset       float64   `json:"offset"`
	Coefficients []float64 `json:"coefficients"`
}

// collectionJSON is the on-disk form of a per-gene model collection.
type collectionJSON struct {
	FormatVersion string             `json:"format_version"`
	Columns       []string           `json:"columns"`
	Design        [][]float64        `json:"design"`
	Pseudotime    [][]*float64       `json:"pseudotime"`
	Degree        int                `json:"degree"`
	Knots         [][]float64        `json:"knots"`
	Models        map[string]gamJSON `json:"models"`
}

// LoadContainer reads a shared-basis smoother container from JSON,
// validating shapes and finiteness before any of it reaches prediction.
func LoadContainer(r io.Reader) (*SmootherContainer, error) {
	var raw containerJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode container JSON")
	}
	if raw.FormatVersion != FormatVersion {
		return nil, errors.NewValidationError("format_version",
			fmt.Sprintf("unsupported version, want %s", FormatVersion), raw.FormatVersion)
	}

	design, pseudotime, err := loadDesign(raw.Columns, raw.Design, raw.Pseudotime)
	if err != nil {
		return nil, err
	}
	if err := checkKnots(raw.Knots); err != nil {
		return nil, err
	}

	coefData, err := denseFromRows("coefficients", raw.Coefficients)
	if err != nil {
		return nil, err
	}
	cr, cc := coefData.Dims()
	if err := errors.CheckFiniteMatrix("coefficients", coefData, cr, cc); err != nil {
		return nil, err
	}
	coefs, err := NewCoefficientTable(coefData, raw.Genes)
	if err != nil {
		return nil, err
	}

	return NewSmootherContainer(coefs, design, raw.Knots, raw.Degree, pseudotime)
}

// LoadContainerFile is LoadContainer over a file path.
func LoadContainerFile(path string) (*SmootherContainer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()
	return LoadContainer(file)
}

// Export writes the container back out in the exchange format.
func (c *SmootherContainer) Export(w io.Writer) error {
	dr, _ := c.design.Data().Dims()
	designRows := make([][]float64, dr)
	for i := 0; i < dr; i++ {
		designRows[i] = mat.Row(nil, i, c.design.Data())
	}

	pr, pc := c.pseudotime.Dims()
	ptRows := make([][]*float64, pr)
	for i := 0; i < pr; i++ {
		row := make([]*float64, pc)
		for j := 0; j < pc; j++ {
			if v := c.pseudotime.At(i, j); !math.IsNaN(v) {
				v := v
				row[j] = &v
			}
		}
		ptRows[i] = row
	}

	gr, _ := c.coefs.data.Dims()
	coefRows := make([][]float64, gr)
	for i := 0; i < gr; i++ {
		coefRows[i] = mat.Row(nil, i, c.coefs.data)
	}

	raw := containerJSON{
		FormatVersion: FormatVersion,
		Columns:       c.design.Columns(),
		Design:        designRows,
		Pseudotime:    ptRows,
		Degree:        c.degree,
		Knots:         c.knots,
		Genes:         c.coefs.genes,
		Coefficients:  coefRows,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&raw); err != nil {
		return errors.Wrap(err, "failed to encode container JSON")
	}
	return nil
}

// LoadGAMs reads a per-gene model collection from JSON. The shared design,
// pseudotime, knots and degree are decoded once and referenced by every
// model, matching how such collections are fitted.
func LoadGAMs(r io.Reader) (map[string]*GAM, error) {
	var raw collectionJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode model collection JSON")
	}
	if raw.FormatVersion != FormatVersion {
		return nil, errors.NewValidationError("format_version",
			fmt.Sprintf("unsupported version, want %s", FormatVersion), raw.FormatVersion)
	}
	if len(raw.Models) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "LoadGAMs")
	}

	design, pseudotime, err := loadDesign(raw.Columns, raw.Design, raw.Pseudotime)
	if err != nil {
		return nil, err
	}
	if err := checkKnots(raw.Knots); err != nil {
		return nil, err
	}

	models := make(map[string]*GAM, len(raw.Models))
	for gene, m := range raw.Models {
		if err := errors.CheckFinite("coefficients["+gene+"]", m.Coefficients); err != nil {
			return nil, err
		}
		gam, err := NewGAM(m.Coefficients, raw.Knots, raw.Degree, m.Offset, design, pseudotime)
		if err != nil {
			return nil, errors.Wrapf(err, "model for gene %s", gene)
		}
		models[gene] = gam
	}
	return models, nil
}

// LoadGAMsFile is LoadGAMs over a file path.
func LoadGAMsFile(path string) (map[string]*GAM, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()
	return LoadGAMs(file)
}

func loadDesign(cols []string, designRows [][]float64, ptRows [][]*float64) (*DesignMatrix, *mat.Dense, error) {
	designData, err := denseFromRows("design", designRows)
	if err != nil {
		return nil, nil, err
	}
	dr, dc := designData.Dims()
	if err := errors.CheckFiniteMatrix("design", designData, dr, dc); err != nil {
		return nil, nil, err
	}
	design, err := NewDesignMatrix(designData, cols)
	if err != nil {
		return nil, nil, err
	}

	pseudotime, err := pseudotimeFromRows(ptRows)
	if err != nil {
		return nil, nil, err
	}
	return design, pseudotime, nil
}

// denseFromRows converts nested row-major JSON data to a Dense matrix,
// rejecting ragged rows.
func denseFromRows(field string, rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, field)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.NewDimensionError(field+" row "+fmt.Sprint(i), cols, len(row), 1)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

// pseudotimeFromRows converts nullable JSON cells to a Dense matrix with
// NaN fillers for off-lineage entries.
func pseudotimeFromRows(rows [][]*float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "pseudotime")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.NewDimensionError("pseudotime row "+fmt.Sprint(i), cols, len(row), 1)
		}
		for _, cell := range row {
			if cell == nil {
				data = append(data, math.NaN())
			} else {
				data = append(data, *cell)
			}
		}
	}
	return mat.NewDense(len(rows), cols, data), nil
}

// checkKnots rejects non-finite knot positions up front; ordering and
// length constraints are enforced by basisLayout during construction.
func checkKnots(knots [][]float64) error {
	for k, kv := range knots {
		if err := errors.CheckFinite(fmt.Sprintf("knots[%d]", k), kv); err != nil {
			return err
		}
	}
	return nil
}
