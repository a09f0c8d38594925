package ncarray

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	assert.Equal(t, []int{2, 3}, Shape([][]float32{{1, 2, 3}, {4, 5, 6}}))
	assert.Equal(t, []int{4}, Shape([]int16{1, 2, 3, 4}))
	assert.Empty(t, Shape(float32(1)))
	assert.Equal(t, []int{0}, Shape([][]float64{}))
}

func TestFlatten(t *testing.T) {
	data, shape, err := Flatten([][][]int16{{{1, 2}, {3, 4}}, {{5, 6}, {7, 8}}})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2}, shape)
	if diff := cmp.Diff([]float64{1, 2, 3, 4, 5, 6, 7, 8}, data); diff != "" {
		t.Errorf("flatten mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_Ragged(t *testing.T) {
	_, _, err := Flatten([][]float64{{1, 2}, {3}})
	require.Error(t, err)
}

func TestFlatten_NonNumeric(t *testing.T) {
	_, _, err := Flatten([]string{"a"})
	require.Error(t, err)
}

func TestNest(t *testing.T) {
	v, err := Nest[float32]([]float64{1, 2, 3, 4, 5, 6}, []int{3, 2})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 2}, {3, 4}, {5, 6}}, v)

	v, err = Nest[int32]([]float64{0, 1, 2}, []int{3})
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 2}, v)
}

func TestNest_FlattenInverse(t *testing.T) {
	data := make([]float64, 2*3*1*2*2)
	for i := range data {
		data[i] = float64(i)
	}
	shape := []int{2, 3, 1, 2, 2}

	v, err := Nest[float64](data, shape)
	require.NoError(t, err)
	_, ok := v.([][][][][]float64)
	require.True(t, ok)

	back, backShape, err := Flatten(v)
	require.NoError(t, err)
	assert.Equal(t, shape, backShape)
	assert.Equal(t, data, back)
}

func TestNest_ShapeMismatch(t *testing.T) {
	_, err := Nest[float32]([]float64{1, 2, 3}, []int{2, 2})
	require.Error(t, err)
}

func TestStrides(t *testing.T) {
	assert.Equal(t, []int{24, 12, 4, 1}, Strides([]int{5, 2, 3, 4}))
	assert.Equal(t, []int{1}, Strides([]int{7}))
}

func TestAttributes(t *testing.T) {
	attrs, err := Attributes("long_name", "Channel", "scale", 2.5)
	require.NoError(t, err)
	assert.Equal(t, []string{"long_name", "scale"}, attrs.Keys())
	v, ok := attrs.Get("scale")
	require.True(t, ok)
	assert.Equal(t, 2.5, v)

	_, err = Attributes("odd")
	require.Error(t, err)
	_, err = Attributes(1, "x")
	require.Error(t, err)
}

func TestMerge(t *testing.T) {
	base, err := Attributes("a", "1", "b", "2")
	require.NoError(t, err)
	extra, err := Attributes("b", "3", "c", "4")
	require.NoError(t, err)

	m, err := Merge(base, extra)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	v, _ := m.Get("b")
	assert.Equal(t, "3", v)

	m, err = Merge(nil, extra)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, m.Keys())
}
