// Package ncarray converts between the nested slices used by go-native-netcdf
// for multi-dimensional variables and flat row-major float64 data.
package ncarray

import (
	"reflect"

	"github.com/pkg/errors"
)

// Shape returns the lengths of each nesting level of v. Scalars have an empty
// shape.
func Shape(v any) []int {
	var shape []int
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Slice {
		shape = append(shape, rv.Len())
		if rv.Len() == 0 {
			break
		}
		rv = rv.Index(0)
	}
	return shape
}

// Flatten copies a (possibly nested) numeric slice into row-major float64
// data and returns it with its shape. Ragged slices are rejected.
func Flatten(v any) ([]float64, []int, error) {
	shape := Shape(v)
	n := 1
	for _, d := range shape {
		n *= d
	}
	out := make([]float64, 0, n)
	out, err := flatten(reflect.ValueOf(v), shape, out)
	if err != nil {
		return nil, nil, err
	}
	return out, shape, nil
}

func flatten(rv reflect.Value, shape []int, out []float64) ([]float64, error) {
	if len(shape) == 0 {
		f, err := toFloat(rv)
		if err != nil {
			return nil, err
		}
		return append(out, f), nil
	}
	if rv.Kind() != reflect.Slice || rv.Len() != shape[0] {
		return nil, errors.Errorf("ragged array: want length %d at depth %d", shape[0], len(shape))
	}
	var err error
	for i := 0; i < rv.Len(); i++ {
		out, err = flatten(rv.Index(i), shape[1:], out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func toFloat(rv reflect.Value) (float64, error) {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	default:
		return 0, errors.Errorf("non-numeric element of kind %s", rv.Kind())
	}
}

// Nest builds a nested slice of T with the given shape from row-major data.
// For a 2-D shape the result is a [][]T, for 5-D a [][][][][]T and so on.
func Nest[T float32 | float64 | int32](data []float64, shape []int) (any, error) {
	n := 1
	for _, d := range shape {
		n *= d
	}
	if n != len(data) {
		return nil, errors.Errorf("shape %v holds %d values, have %d", shape, n, len(data))
	}
	if len(shape) == 0 {
		return nil, errors.New("cannot nest a scalar")
	}
	elem := reflect.TypeOf(T(0))
	typ := elem
	for range shape {
		typ = reflect.SliceOf(typ)
	}
	rv, _ := nest(typ, data, shape)
	return rv.Interface(), nil
}

func nest(typ reflect.Type, data []float64, shape []int) (reflect.Value, []float64) {
	s := reflect.MakeSlice(typ, shape[0], shape[0])
	if len(shape) == 1 {
		for i := 0; i < shape[0]; i++ {
			s.Index(i).Set(reflect.ValueOf(data[i]).Convert(typ.Elem()))
		}
		return s, data[shape[0]:]
	}
	for i := 0; i < shape[0]; i++ {
		var child reflect.Value
		child, data = nest(typ.Elem(), data, shape[1:])
		s.Index(i).Set(child)
	}
	return s, data
}

// Strides returns the row-major strides of shape.
func Strides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}
