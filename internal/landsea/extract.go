package landsea

import (
	"github.com/pkg/errors"

	"github.com/rtm0/fcnpost/internal/npyfile"
)

// Extract loads the land/sea mask at inPath, keeps its first rows rows,
// rounds it to integers and saves the edge mask to outPath. It returns the
// number of edge cells.
func Extract(inPath, outPath string, rows int, threshold float64) (int, error) {
	a, err := npyfile.Load(inPath)
	if err != nil {
		return 0, errors.Wrap(err, "load land/sea mask")
	}
	m, err := a.Squeeze().Rows(rows).Matrix()
	if err != nil {
		return 0, errors.Wrap(err, "land/sea mask")
	}
	Round(m)

	edges := Edges(m, threshold)
	if err := npyfile.SaveMatrix(outPath, edges); err != nil {
		return 0, errors.Wrap(err, "save edge mask")
	}
	return Count(edges), nil
}
