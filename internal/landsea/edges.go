// Package landsea derives coastline masks from a land/sea mask grid.
package landsea

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultThreshold is the gradient magnitude above which a cell is marked as
// an edge. It has not been calibrated against a reference coastline.
const DefaultThreshold = 0.1

var (
	derivative = [3]float64{-1, 0, 1}
	smoothing  = [3]float64{1, 2, 1}
)

// Sobel returns the Sobel gradient of m along axis (0 for rows, 1 for
// columns). Cells outside the grid are treated as zero.
func Sobel(m mat.Matrix, axis int) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			var v float64
			for a := -1; a <= 1; a++ {
				for b := -1; b <= 1; b++ {
					var w float64
					if axis == 0 {
						w = derivative[a+1] * smoothing[b+1]
					} else {
						w = smoothing[a+1] * derivative[b+1]
					}
					if w == 0 {
						continue
					}
					v += w * at(m, i+a, j+b, r, c)
				}
			}
			out.Set(i, j, v)
		}
	}
	return out
}

func at(m mat.Matrix, i, j, r, c int) float64 {
	if i < 0 || j < 0 || i >= r || j >= c {
		return 0
	}
	return m.At(i, j)
}

// Edges marks cells where the Sobel gradient magnitude of m exceeds
// threshold. The result has m's shape and holds only 0 and 1.
func Edges(m mat.Matrix, threshold float64) *mat.Dense {
	gx := Sobel(m, 0)
	gy := Sobel(m, 1)

	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.Hypot(gx.At(i, j), gy.At(i, j)) > threshold {
				out.Set(i, j, 1)
			}
		}
	}
	return out
}

// Round rounds every cell of m to the nearest integer, in place. Halves round
// to even.
func Round(m *mat.Dense) {
	m.Apply(func(_, _ int, v float64) float64 { return math.RoundToEven(v) }, m)
}

// Count returns the number of non-zero cells in an edge mask.
func Count(m *mat.Dense) int {
	r, c := m.Dims()
	row := make([]float64, c)
	n := 0
	for i := 0; i < r; i++ {
		mat.Row(row, i, m)
		n += int(floats.Sum(row))
	}
	return n
}
