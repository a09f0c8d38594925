package main

import (
	"flag"

	"github.com/rtm0/fcnpost/internal/landsea"
)

func runEdges(e *env, args []string) error {
	fs := flag.NewFlagSet("edges", flag.ExitOnError)
	in := fs.String("in", "/N/u/jmelms/BigRed200/FCN_Otis/land_sea_mask.npy", "path to the land/sea mask")
	out := fs.String("out", "/N/u/jmelms/BigRed200/FCN_Otis/land_sea_edges_mask.npy", "path of the edge mask to write")
	threshold := fs.Float64("threshold", e.cfg.EdgeThreshold, "gradient magnitude above which a cell is an edge")
	fs.Parse(args)

	n, err := landsea.Extract(*in, *out, e.cfg.ValidRows, *threshold)
	if err != nil {
		return err
	}
	e.metrics.EdgeCells.Set(float64(n))
	e.metrics.FilesProcessed.WithLabelValues("edges").Inc()
	e.logger.Info("Converted mask to edge mask", "in", *in, "out", *out, "edgeCells", n, "threshold", *threshold)
	return nil
}
