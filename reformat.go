package main

import (
	"flag"
	"fmt"

	"github.com/rtm0/fcnpost/internal/reformat"
)

func runReformat(e *env, args []string) error {
	fs := flag.NewFlagSet("reformat", flag.ExitOnError)
	in := fs.String("in", "/N/slate/jmelms/FCN_output/otis16t/autoregressive_predictions_z500_vis.nc", "path to the file to reformat")
	out := fs.String("out", "", "path of the reformatted file; defaults to the input with a .nc extension")
	rewrite := fs.Bool("rewrite", false, "write the reformatted dataset and remove the input")
	display := fs.Bool("display", true, "print the dataset after reformatting")
	fs.Parse(args)

	r := reformat.New(e.logger, e.clock)
	ds, written, err := r.Run(reformat.Options{Input: *in, Output: *out, Rewrite: *rewrite})
	if err != nil {
		return err
	}
	if *display {
		fmt.Fprintln(e.stdout, "----- Start Dataset -----")
		fmt.Fprint(e.stdout, reformat.Describe(ds))
		fmt.Fprintln(e.stdout, "------ End Dataset ------")
	}
	if written != "" {
		e.metrics.FilesProcessed.WithLabelValues("reformat").Inc()
	}
	return nil
}
