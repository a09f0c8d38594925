package reformat

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
)

// WriteFunc writes a dataset to a file.
type WriteFunc func(filePath string, ds *Dataset) error

// Reformatter labels the dimensions of prediction files and optionally
// rewrites them in place as netCDF.
type Reformatter struct {
	logger *slog.Logger
	clock  clockwork.Clock
	labels []DimLabel
	write  WriteFunc
}

// New creates a reformatter using DefaultDims and the netCDF writer.
func New(logger *slog.Logger, clock clockwork.Clock) *Reformatter {
	return &Reformatter{
		logger: logger,
		clock:  clock,
		labels: DefaultDims,
		write:  Write,
	}
}

// WithWriter replaces the function used to write the temporary file.
func (r *Reformatter) WithWriter(w WriteFunc) *Reformatter {
	r.write = w
	return r
}

// Options controls a single reformat run.
type Options struct {
	Input   string
	Output  string // defaults to Input with a .nc extension
	Rewrite bool
}

// Run loads opts.Input, labels its dimensions and, when opts.Rewrite is set,
// replaces the input with the reformatted file. It returns the reformatted
// dataset and the path it was written to (empty without Rewrite).
func (r *Reformatter) Run(opts Options) (*Dataset, string, error) {
	ds, err := Load(opts.Input)
	if err != nil {
		return nil, "", errors.Wrapf(err, "load %s", opts.Input)
	}
	if Formatted(ds, r.labels) {
		r.logger.Info("Dimensions already labeled", "path", opts.Input)
	} else if !hasLabels(ds, r.labels) {
		return nil, "", errors.Errorf("%s: no dimension to label", opts.Input)
	}
	if err := Rename(ds, r.labels, r.clock); err != nil {
		return nil, "", err
	}
	if !opts.Rewrite {
		return ds, "", nil
	}
	out, err := r.Rewrite(opts.Input, opts.Output, ds)
	if err != nil {
		return nil, "", err
	}
	return ds, out, nil
}

// Rewrite writes ds next to the input as a temporary file and, only once
// that write succeeded, removes the input and renames the temporary file to
// the output path. A failed write leaves the input untouched.
func (r *Reformatter) Rewrite(input, output string, ds *Dataset) (string, error) {
	if output == "" {
		output = stem(input) + ".nc"
	}
	tmp := stem(output) + ".tmp"
	if filepath.Clean(tmp) == filepath.Clean(input) {
		return "", errors.Errorf("temporary file %s would overwrite the input, set an output path", tmp)
	}

	if err := r.write(tmp, ds); err != nil {
		r.logger.Error("Could not write dataset", "path", tmp, "err", err)
		if rmErr := os.Remove(tmp); rmErr != nil && !os.IsNotExist(rmErr) {
			r.logger.Warn("Could not remove temporary file", "path", tmp, "err", rmErr)
		}
		return "", errors.Wrapf(err, "write %s", tmp)
	}

	if err := os.Remove(input); err != nil {
		return "", errors.Wrapf(err, "remove %s", input)
	}
	if err := os.Rename(tmp, output); err != nil {
		return "", errors.Wrapf(err, "rename %s to %s", tmp, output)
	}
	r.logger.Info("Dataset rewritten", "from", input, "to", output)
	return output, nil
}

func stem(p string) string {
	return strings.TrimSuffix(p, filepath.Ext(p))
}
