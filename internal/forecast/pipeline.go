package forecast

import (
	"time"

	"github.com/pkg/errors"

	"github.com/rtm0/fcnpost/internal/config"
	"github.com/rtm0/fcnpost/internal/ncarray"
	"github.com/rtm0/fcnpost/internal/npyfile"
)

// Stats holds the per-channel standardization applied before inference.
type Stats struct {
	Mean []float64
	Std  []float64
}

// Aux is everything besides the forecast array needed to process it.
type Aux struct {
	Lat      []float64
	Lon      []float64
	Channels []string
	Stats    Stats

	InitTime  time.Time
	Timestep  time.Duration
	ValidRows int
}

// LoadAux reads the coordinate and statistics files named by cfg.
func LoadAux(cfg *config.Config) (*Aux, error) {
	lat, err := npyfile.Load(cfg.LatPath)
	if err != nil {
		return nil, errors.Wrap(err, "load latitude")
	}
	lon, err := npyfile.Load(cfg.LonPath)
	if err != nil {
		return nil, errors.Wrap(err, "load longitude")
	}
	stats, err := LoadStats(cfg.MeansPath(), cfg.StdsPath(), len(cfg.Channels))
	if err != nil {
		return nil, err
	}
	return &Aux{
		Lat:       lat.Squeeze().Data,
		Lon:       lon.Squeeze().Data,
		Channels:  cfg.Channels,
		Stats:     stats,
		InitTime:  cfg.InitTime,
		Timestep:  cfg.Timestep,
		ValidRows: cfg.ValidRows,
	}, nil
}

// LoadStats reads the global means and standard deviations and keeps the
// first n channels. The files may carry extra channels the model does not
// predict.
func LoadStats(meansPath, stdsPath string, n int) (Stats, error) {
	means, err := npyfile.Load(meansPath)
	if err != nil {
		return Stats{}, errors.Wrap(err, "load means")
	}
	stds, err := npyfile.Load(stdsPath)
	if err != nil {
		return Stats{}, errors.Wrap(err, "load stds")
	}
	m, s := means.Squeeze().Data, stds.Squeeze().Data
	if len(m) < n || len(s) < n {
		return Stats{}, errors.Errorf("statistics cover %d/%d channels, need %d", len(m), len(s), n)
	}
	return Stats{Mean: m[:n], Std: s[:n]}, nil
}

// Process attaches coordinates to f and denormalizes it in place. It returns
// the (ic, t) valid-time table, which cannot be a coordinate of f because it
// depends on two dimensions.
func Process(f *Forecast, aux *Aux) (TimeTable, error) {
	lat := aux.Lat
	if len(lat) > aux.ValidRows {
		lat = lat[:aux.ValidRows]
	}

	Rename(f, map[string]string{DimX: DimLat, DimY: DimLon})

	if err := AttachCoords(f, lat, aux.Lon, aux.Channels); err != nil {
		return nil, err
	}

	table := NewTimeTable(aux.InitTime, aux.Timestep, f.Size(DimIC), f.Size(DimT))

	if err := Denormalize(f, aux.Stats); err != nil {
		return nil, err
	}
	return table, nil
}

// Rename renames dimensions of f according to names. Dimensions missing from
// names are kept.
func Rename(f *Forecast, names map[string]string) {
	for i, d := range f.Dims {
		if n, ok := names[d]; ok {
			f.Dims[i] = n
		}
	}
}

// AttachCoords sets the latitude, longitude and channel coordinates of f.
// f must already be in Layout order and every coordinate must match the
// length of its dimension.
func AttachCoords(f *Forecast, lat, lon []float64, channels []string) error {
	if len(f.Dims) != len(Layout) {
		return errors.Errorf("dimensions %v, want %v", f.Dims, Layout)
	}
	for i, d := range Layout {
		if f.Dims[i] != d {
			return errors.Errorf("dimensions %v, want %v", f.Dims, Layout)
		}
	}
	for _, c := range []struct {
		dim string
		n   int
	}{
		{DimLat, len(lat)},
		{DimLon, len(lon)},
		{DimChannel, len(channels)},
	} {
		if size := f.Size(c.dim); size != c.n {
			return errors.Errorf("%s coordinate has %d values, dimension has %d", c.dim, c.n, size)
		}
	}
	f.Lat = lat
	f.Lon = lon
	f.Channels = channels
	return nil
}

// Denormalize undoes the per-channel standardization, value*std + mean.
func Denormalize(f *Forecast, s Stats) error {
	return applyPerChannel(f, s, func(v, mean, std float64) float64 {
		return v*std + mean
	})
}

// Normalize applies the per-channel standardization, (value - mean) / std.
func Normalize(f *Forecast, s Stats) error {
	return applyPerChannel(f, s, func(v, mean, std float64) float64 {
		return (v - mean) / std
	})
}

func applyPerChannel(f *Forecast, s Stats, fn func(v, mean, std float64) float64) error {
	shape := f.Values.Shape
	if len(shape) != 5 {
		return errors.Errorf("forecast has shape %v, want 5 dimensions", shape)
	}
	nc := shape[2]
	if len(s.Mean) != nc || len(s.Std) != nc {
		return errors.Errorf("statistics have %d/%d channels, forecast has %d", len(s.Mean), len(s.Std), nc)
	}
	stride := ncarray.Strides(shape)[2]
	for i, v := range f.Values.Elements {
		c := (i / stride) % nc
		f.Values.Elements[i] = fn(v, s.Mean[c], s.Std[c])
	}
	return nil
}
