package forecast

import (
	"strings"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/pkg/errors"

	"github.com/rtm0/fcnpost/internal/ncarray"
)

// VarValidTime is the (ic, t) valid-time variable of a processed file.
const VarValidTime = "valid_time"

const timeLayout = "2006-01-02 15:04:05"

// Write saves a processed forecast and its time table as netCDF. Channel
// names are kept in the channel_names attribute of the channel index
// variable, valid times as hours since the initial time.
func Write(filePath string, f *Forecast, table TimeTable, init time.Time) error {
	if len(f.Channels) == 0 {
		return errors.New("forecast has no coordinates attached")
	}
	predicted, err := ncarray.Nest[float32](f.Values.Elements, f.Values.Shape)
	if err != nil {
		return err
	}
	channelIdx := make([]float64, len(f.Channels))
	for i := range channelIdx {
		channelIdx[i] = float64(i)
	}
	channels, err := ncarray.Nest[int32](channelIdx, []int{len(channelIdx)})
	if err != nil {
		return err
	}

	type entry struct {
		name  string
		dims  []string
		vals  any
		attrs []any
	}
	entries := []entry{
		{DefaultVariable, f.Dims, predicted, []any{"long_name", "Denormalized forecast"}},
		{DimLat, []string{DimLat}, f.Lat, []any{"long_name", "Latitude", "units", "degrees_north"}},
		{DimLon, []string{DimLon}, f.Lon, []any{"long_name", "Longitude", "units", "degrees_east"}},
		{DimChannel, []string{DimChannel}, channels, []any{"long_name", "Channel", "channel_names", strings.Join(f.Channels, ",")}},
		{VarValidTime, []string{DimIC, DimT}, table.Hours(init), []any{"long_name", "Valid time", "units", "hours since " + init.UTC().Format(timeLayout)}},
	}

	cw, err := cdf.OpenWriter(filePath)
	if err != nil {
		return err
	}
	for _, e := range entries {
		attrs, err := ncarray.Attributes(e.attrs...)
		if err != nil {
			cw.Close()
			return err
		}
		if err := cw.AddVar(e.name, api.Variable{Values: e.vals, Dimensions: e.dims, Attributes: attrs}); err != nil {
			cw.Close()
			return errors.Wrapf(err, "add variable %q", e.name)
		}
	}
	global, err := ncarray.Attributes(
		"init_time", init.UTC().Format(time.RFC3339),
		"title", "FourCastNet autoregressive predictions",
	)
	if err != nil {
		cw.Close()
		return err
	}
	if err := cw.AddGlobalAttrs(global); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

// OpenProcessed reads a file written by Write back into a forecast with its
// coordinates and time table.
func OpenProcessed(filePath string) (*Forecast, TimeTable, error) {
	nc, err := netcdf.Open(filePath)
	if err != nil {
		return nil, nil, err
	}
	defer nc.Close()

	f, err := readVariable(nc, DefaultVariable)
	if err != nil {
		return nil, nil, err
	}
	f.Lat, err = dimValues[float64](nc, DimLat)
	if err != nil {
		return nil, nil, err
	}
	f.Lon, err = dimValues[float64](nc, DimLon)
	if err != nil {
		return nil, nil, err
	}
	ch, err := nc.GetVariable(DimChannel)
	if err != nil {
		return nil, nil, err
	}
	names, ok := ch.Attributes.Get("channel_names")
	if !ok {
		return nil, nil, errors.New("channel variable has no channel_names attribute")
	}
	f.Channels = strings.Split(names.(string), ",")

	initAttr, ok := nc.Attributes().Get("init_time")
	if !ok {
		return nil, nil, errors.New("missing init_time attribute")
	}
	init, err := time.Parse(time.RFC3339, initAttr.(string))
	if err != nil {
		return nil, nil, errors.Wrap(err, "init_time attribute")
	}
	vt, err := nc.GetVariable(VarValidTime)
	if err != nil {
		return nil, nil, err
	}
	hours, ok := vt.Values.([][]float64)
	if !ok {
		return nil, nil, errors.Errorf("%s is %T, want [][]float64", VarValidTime, vt.Values)
	}
	return f, FromHours(init, hours), nil
}

func dimValues[T int32 | float32 | float64](nc api.Group, dimName string) ([]T, error) {
	dim, err := nc.GetVarGetter(dimName)
	if err != nil {
		return nil, err
	}
	v, err := dim.Values()
	if err != nil {
		return nil, err
	}
	vals, ok := v.([]T)
	if !ok {
		return nil, errors.Errorf("%s is %T", dimName, v)
	}
	return vals, nil
}
