package errors

import (
	"fmt"
	"math"
)

// CheckFinite returns a ValueError when values contain NaN or Inf.
// Used by the model loaders to reject corrupted coefficient or knot data
// before it reaches any matrix arithmetic.
func CheckFinite(op string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewValueError(op, fmt.Sprintf("non-finite value %v at position %d", v, i))
		}
	}
	return nil
}

// CheckFiniteMatrix checks every entry of a matrix for NaN or Inf.
func CheckFiniteMatrix(op string, m interface{ At(int, int) float64 }, rows, cols int) error {
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return NewValueError(op, fmt.Sprintf("non-finite value %v at row %d, column %d", v, i, j))
			}
		}
	}
	return nil
}
