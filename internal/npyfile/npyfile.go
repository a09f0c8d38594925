// Package npyfile loads and saves NumPy .npy arrays as float64 data.
package npyfile

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio/npy"
	"gonum.org/v1/gonum/mat"
)

// Array is a C-ordered n-dimensional array converted to float64.
type Array struct {
	Shape []int
	Data  []float64
}

// Load reads a .npy file. Integer and boolean dtypes are converted to float64.
func Load(path string) (*Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := npy.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read npy header of %s", path)
	}
	if r.Header.Descr.Fortran {
		return nil, errors.Errorf("%s: fortran-ordered arrays are not supported", path)
	}

	data, err := readFloat64(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	shape := append([]int(nil), r.Header.Descr.Shape...)
	if n := numElements(shape); n != len(data) {
		return nil, errors.Errorf("%s: shape %v holds %d values, read %d", path, shape, n, len(data))
	}
	return &Array{Shape: shape, Data: data}, nil
}

func readFloat64(r *npy.Reader) ([]float64, error) {
	switch dt := r.Header.Descr.Type; dt {
	case "<f8":
		var v []float64
		err := r.Read(&v)
		return v, err
	case "<f4":
		var v []float32
		if err := r.Read(&v); err != nil {
			return nil, err
		}
		return convert(v), nil
	case "<i8":
		var v []int64
		if err := r.Read(&v); err != nil {
			return nil, err
		}
		return convert(v), nil
	case "<i4":
		var v []int32
		if err := r.Read(&v); err != nil {
			return nil, err
		}
		return convert(v), nil
	case "<i2":
		var v []int16
		if err := r.Read(&v); err != nil {
			return nil, err
		}
		return convert(v), nil
	case "|i1":
		var v []int8
		if err := r.Read(&v); err != nil {
			return nil, err
		}
		return convert(v), nil
	case "|u1":
		var v []uint8
		if err := r.Read(&v); err != nil {
			return nil, err
		}
		return convert(v), nil
	case "|b1":
		var v []bool
		if err := r.Read(&v); err != nil {
			return nil, err
		}
		out := make([]float64, len(v))
		for i, b := range v {
			if b {
				out[i] = 1
			}
		}
		return out, nil
	default:
		return nil, errors.Errorf("unsupported dtype %q", dt)
	}
}

func convert[T float32 | int64 | int32 | int16 | int8 | uint8](v []T) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Squeeze returns a view of a with all length-1 axes removed.
func (a *Array) Squeeze() *Array {
	shape := make([]int, 0, len(a.Shape))
	for _, d := range a.Shape {
		if d != 1 {
			shape = append(shape, d)
		}
	}
	return &Array{Shape: shape, Data: a.Data}
}

// Rows truncates the leading axis to at most n entries.
func (a *Array) Rows(n int) *Array {
	if len(a.Shape) == 0 || a.Shape[0] <= n {
		return a
	}
	shape := append([]int{n}, a.Shape[1:]...)
	return &Array{Shape: shape, Data: a.Data[:numElements(shape)]}
}

// Matrix returns a 2-D array as a dense matrix sharing a's data.
func (a *Array) Matrix() (*mat.Dense, error) {
	if len(a.Shape) != 2 {
		return nil, errors.Errorf("want a 2-D array, have shape %v", a.Shape)
	}
	if a.Shape[0] == 0 || a.Shape[1] == 0 {
		return nil, errors.Errorf("empty array of shape %v", a.Shape)
	}
	return mat.NewDense(a.Shape[0], a.Shape[1], a.Data), nil
}

// SaveMatrix writes m as a 2-D float64 .npy file.
func SaveMatrix(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := npy.Write(f, m); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}
