package reformat

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"github.com/rtm0/fcnpost/internal/ncarray"
)

// DimLabel maps a placeholder dimension name to its semantic name and label.
type DimLabel struct {
	From     string
	To       string
	LongName string
}

// DefaultDims are the labels of the five positional dimensions h5py writes
// for an (ic, t, channel, x, y) prediction array.
var DefaultDims = []DimLabel{
	{From: "phony_dim_0", To: "ic", LongName: "Initial Condition"},
	{From: "phony_dim_1", To: "t", LongName: "Time"},
	{From: "phony_dim_2", To: "channel", LongName: "Channel"},
	{From: "phony_dim_3", To: "x", LongName: "X-idx"},
	{From: "phony_dim_4", To: "y", LongName: "Y-idx"},
}

// Formatted reports whether ds already uses the semantic names of labels and
// none of the placeholders.
func Formatted(ds *Dataset, labels []DimLabel) bool {
	dims, err := ds.Dims()
	if err != nil {
		return false
	}
	for _, l := range labels {
		if _, ok := dims[l.From]; ok {
			return false
		}
		if _, ok := dims[l.To]; !ok {
			return false
		}
	}
	return true
}

// hasLabels reports whether any dimension of ds is a placeholder or a semantic
// name of labels.
func hasLabels(ds *Dataset, labels []DimLabel) bool {
	dims, err := ds.Dims()
	if err != nil {
		return false
	}
	for _, l := range labels {
		if _, ok := dims[l.From]; ok {
			return true
		}
		if _, ok := dims[l.To]; ok {
			return true
		}
	}
	return false
}

// Rename renames placeholder dimensions in every variable of ds and labels
// each renamed dimension with an index coordinate variable carrying its
// long_name. A history entry stamped with clock is added to the global
// attributes.
func Rename(ds *Dataset, labels []DimLabel, clock clockwork.Clock) error {
	names := make(map[string]string, len(labels))
	for _, l := range labels {
		names[l.From] = l.To
	}
	for i := range ds.Vars {
		dims := append([]string(nil), ds.Vars[i].Dimensions...)
		for j, d := range dims {
			if to, ok := names[d]; ok {
				dims[j] = to
			}
		}
		ds.Vars[i].Dimensions = dims
	}

	sizes, err := ds.Dims()
	if err != nil {
		return err
	}
	for _, l := range labels {
		n, ok := sizes[l.To]
		if !ok {
			continue
		}
		if err := label(ds, l, n); err != nil {
			return err
		}
	}

	history, err := ncarray.Attributes("history",
		clock.Now().UTC().Format(time.RFC3339)+": dimensions labeled by fcnpost reformat")
	if err != nil {
		return err
	}
	ds.Attrs, err = ncarray.Merge(ds.Attrs, history)
	return err
}

func label(ds *Dataset, l DimLabel, n int) error {
	longName, err := ncarray.Attributes("long_name", l.LongName)
	if err != nil {
		return err
	}
	if v := ds.Var(l.To); v != nil {
		if len(v.Dimensions) != 1 || v.Dimensions[0] != l.To {
			return errors.Errorf("variable %q clashes with dimension %q", l.To, l.To)
		}
		v.Attributes, err = ncarray.Merge(v.Attributes, longName)
		return err
	}
	idx := make([]float64, n)
	for i := range idx {
		idx[i] = float64(i)
	}
	vals, err := ncarray.Nest[int32](idx, []int{n})
	if err != nil {
		return err
	}
	v := Variable{Name: l.To}
	v.Values = vals
	v.Dimensions = []string{l.To}
	v.Attributes = longName
	ds.Vars = append(ds.Vars, v)
	return nil
}
