package gam

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// The shared fixture is a two-lineage trajectory: lineage 1 observed over
// pseudotime [0, 10], lineage 2 over [0, 8], four cells, cubic smoothers
// with one interior knot per lineage (5 basis functions each, 11
// coefficients including the intercept).

var testCols = []string{"t1", "l1", "t2", "l2", "offset"}

func testKnots() [][]float64 {
	return [][]float64{
		{0, 0, 0, 0, 5, 10, 10, 10, 10},
		{0, 0, 0, 0, 4, 8, 8, 8, 8},
	}
}

func mustDesign(t *testing.T, offsets []float64) *DesignMatrix {
	t.Helper()
	if offsets == nil {
		offsets = []float64{0, 0, 0, 0}
	}
	data := mat.NewDense(4, 5, []float64{
		0, 1, 0, 0, offsets[0],
		10, 1, 0, 0, offsets[1],
		0, 0, 0, 1, offsets[2],
		0, 0, 8, 1, offsets[3],
	})
	design, err := NewDesignMatrix(data, testCols)
	if err != nil {
		t.Fatalf("NewDesignMatrix() error = %v", err)
	}
	return design
}

func testPseudotime() *mat.Dense {
	nan := math.NaN()
	return mat.NewDense(4, 2, []float64{
		0, nan,
		10, nan,
		nan, 0,
		nan, 8,
	})
}

// mustContainer builds a single-gene container whose only nonzero
// coefficient is the intercept, so every prediction is exp(intercept +
// offset) regardless of pseudotime.
func mustContainer(t *testing.T, intercept float64, offsets []float64) *SmootherContainer {
	t.Helper()
	coefRow := make([]float64, 11)
	coefRow[0] = intercept
	coefs, err := NewCoefficientTable(mat.NewDense(1, 11, coefRow), []string{"Sox9"})
	if err != nil {
		t.Fatalf("NewCoefficientTable() error = %v", err)
	}
	container, err := NewSmootherContainer(coefs, mustDesign(t, offsets), testKnots(), 3, testPseudotime())
	if err != nil {
		t.Fatalf("NewSmootherContainer() error = %v", err)
	}
	return container
}

func mustGAM(t *testing.T, intercept, offset float64) *GAM {
	t.Helper()
	coefs := make([]float64, 11)
	coefs[0] = intercept
	model, err := NewGAM(coefs, testKnots(), 3, offset, mustDesign(t, nil), testPseudotime())
	if err != nil {
		t.Fatalf("NewGAM() error = %v", err)
	}
	return model
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
