package main

import (
	"flag"

	"github.com/pkg/errors"

	"github.com/rtm0/fcnpost/internal/forecast"
)

func runProcess(e *env, args []string) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	in := fs.String("in", "/N/slate/jmelms/FCN_output/otis6t/autoregressive_predictions_z500_vis.nc", "path to the forecast file")
	out := fs.String("out", "/N/slate/jmelms/otis_analysis/otis6t_processed.nc", "path of the processed file to write")
	varName := fs.String("var", forecast.DefaultVariable, "name of the prediction variable")
	fs.Parse(args)

	f, err := forecast.Open(*in, *varName)
	if err != nil {
		return errors.Wrapf(err, "open %s", *in)
	}
	e.logger.Info("Forecast summary", f.Summary()...)

	aux, err := forecast.LoadAux(e.cfg)
	if err != nil {
		return err
	}
	table, err := forecast.Process(f, aux)
	if err != nil {
		return err
	}
	e.metrics.ValuesDenormalized.Add(float64(len(f.Values.Elements)))
	e.logger.Info("Denormalized forecast", f.Summary()...)

	if err := forecast.Write(*out, f, table, aux.InitTime); err != nil {
		return errors.Wrapf(err, "write %s", *out)
	}
	e.metrics.FilesProcessed.WithLabelValues("process").Inc()
	kv := []any{"path", *out}
	if last := len(table) - 1; last >= 0 && len(table[last]) > 0 {
		kv = append(kv, "firstValidTime", table[0][0], "lastValidTime", table[last][len(table[last])-1])
	}
	e.logger.Info("Processed forecast written", kv...)
	return nil
}
