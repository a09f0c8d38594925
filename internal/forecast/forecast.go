// Package forecast loads FourCastNet autoregressive predictions, attaches
// their coordinates and converts them back to physical units.
package forecast

import (
	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/ctessum/sparse"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/rtm0/fcnpost/internal/ncarray"
)

// Dimension names of a forecast array.
const (
	DimIC      = "ic"
	DimT       = "t"
	DimChannel = "channel"
	DimX       = "x"
	DimY       = "y"
	DimLat     = "lat"
	DimLon     = "lon"
)

// DefaultVariable is the name of the prediction variable written by the
// inference driver.
const DefaultVariable = "predicted"

// Layout is the dimension order of a processed forecast.
var Layout = []string{DimIC, DimT, DimChannel, DimLat, DimLon}

// Forecast is a 5-D forecast array indexed by (ic, t, channel, lat, lon)
// together with its coordinates. Lat, Lon and Channels are empty until
// coordinates are attached.
type Forecast struct {
	Values   *sparse.DenseArray
	Dims     []string
	Lat      []float64
	Lon      []float64
	Channels []string
}

// Open reads the 5-D variable varName from a netCDF or HDF5 file.
func Open(filePath, varName string) (*Forecast, error) {
	nc, err := netcdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer nc.Close()
	return readVariable(nc, varName)
}

func readVariable(nc api.Group, varName string) (*Forecast, error) {
	vr, err := nc.GetVariable(varName)
	if err != nil {
		return nil, errors.Wrapf(err, "variable %q", varName)
	}
	data, shape, err := ncarray.Flatten(vr.Values)
	if err != nil {
		return nil, errors.Wrapf(err, "variable %q", varName)
	}
	if len(shape) != 5 || len(vr.Dimensions) != 5 {
		return nil, errors.Errorf("variable %q has dimensions %v, want 5", varName, vr.Dimensions)
	}
	values := sparse.ZerosDense(shape...)
	copy(values.Elements, data)
	return &Forecast{
		Values: values,
		Dims:   append([]string(nil), vr.Dimensions...),
	}, nil
}

// Size returns the length of the named dimension, or -1 if f has no such
// dimension.
func (f *Forecast) Size(dim string) int {
	for i, d := range f.Dims {
		if d == dim {
			return f.Values.Shape[i]
		}
	}
	return -1
}

// Summary returns the summary information about the forecast suitable for
// logging.
func (f *Forecast) Summary() []any {
	kv := []any{
		"dims", f.Dims,
		"shape", f.Values.Shape,
	}
	if len(f.Values.Elements) > 0 {
		kv = append(kv,
			"min", floats.Min(f.Values.Elements),
			"max", floats.Max(f.Values.Elements),
		)
	}
	if len(f.Channels) > 0 {
		kv = append(kv, "channels", f.Channels)
	}
	return kv
}
