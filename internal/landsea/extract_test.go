package landsea

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sbinet/npyio/npy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/rtm0/fcnpost/internal/npyfile"
)

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "land_sea_mask.npy")
	out := filepath.Join(dir, "land_sea_edges_mask.npy")

	// 6 rows, the last of which must be dropped; fractional coast values.
	mask := mat.NewDense(6, 5, []float64{
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
		0, 0, 0.9, 0, 0,
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
		1, 1, 1, 1, 1,
	})
	require.NoError(t, npyfile.SaveMatrix(in, mask))

	n, err := Extract(in, out, 5, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	got, err := npyfile.Load(out)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 5}, got.Shape)

	m, err := got.Matrix()
	require.NoError(t, err)
	assert.True(t, mat.Equal(Edges(island(), DefaultThreshold), m))
}

func TestExtract_NotAMatrix(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "vec.npy")
	f, err := os.Create(in)
	require.NoError(t, err)
	require.NoError(t, npy.Write(f, []float64{0, 1, 0}))
	require.NoError(t, f.Close())

	_, err = Extract(in, filepath.Join(dir, "out.npy"), 720, DefaultThreshold)
	require.Error(t, err)
}
