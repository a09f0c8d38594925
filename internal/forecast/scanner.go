package forecast

import (
	"github.com/pkg/errors"

	"github.com/rtm0/fcnpost/internal/ncarray"
)

// Scanner retrieves forecast values one (ic, t) step at a time.
type Scanner struct {
	f     *Forecast
	table TimeTable
	nIC   int
	nT    int
	pos   int
	recs  []Record
}

// NewScanner creates a scanner over a processed forecast.
func NewScanner(f *Forecast, table TimeTable) (*Scanner, error) {
	if len(f.Channels) == 0 {
		return nil, errors.New("forecast has no coordinates attached")
	}
	nIC, nT := f.Size(DimIC), f.Size(DimT)
	if len(table) != nIC {
		return nil, errors.Errorf("time table has %d initial conditions, forecast has %d", len(table), nIC)
	}
	for _, row := range table {
		if len(row) != nT {
			return nil, errors.Errorf("time table has %d lead times, forecast has %d", len(row), nT)
		}
	}
	return &Scanner{f: f, table: table, nIC: nIC, nT: nT}, nil
}

// Channels returns the channel names in the order of Record.Values.
func (s *Scanner) Channels() []string {
	return s.f.Channels
}

// Summary returns the summary information about the scan suitable for
// logging.
func (s *Scanner) Summary() []any {
	return []any{
		"dims", s.f.Dims,
		"metrics", s.f.Channels,
		"icCnt", s.nIC,
		"tCnt", s.nT,
		"laCnt", len(s.f.Lat),
		"loCnt", len(s.f.Lon),
		"totalRecCnt", s.TotalRecCount(),
	}
}

// TotalRecCount returns the total number of records within the forecast.
func (s *Scanner) TotalRecCount() int {
	return s.nIC * s.nT * len(s.f.Lat) * len(s.f.Lon)
}

// Scan reads all records for the next (ic, t) step.
func (s *Scanner) Scan() bool {
	if s.pos >= s.nIC*s.nT {
		return false
	}
	ic, t := s.pos/s.nT, s.pos%s.nT
	ts := s.table[ic][t].UnixMilli()

	shape := s.f.Values.Shape
	st := ncarray.Strides(shape)
	nc := shape[2]
	base := ic*st[0] + t*st[1]
	elems := s.f.Values.Elements

	s.recs = make([]Record, len(s.f.Lat)*len(s.f.Lon))
	k := 0
	for i, la := range s.f.Lat {
		for j, lo := range s.f.Lon {
			vals := make([]float64, nc)
			for c := range vals {
				vals[c] = elems[base+c*st[2]+i*st[3]+j*st[4]]
			}
			s.recs[k] = Record{
				Timestamp: ts,
				IC:        ic,
				LeadTime:  t,
				Latitude:  float32(la),
				Longitude: float32(lo),
				Values:    vals,
			}
			k++
		}
	}
	s.pos++
	return true
}

// Records returns the records that have been read by the last Scan() operation.
// The function transfers ownership of records to the caller and the subsequent
// calls to this function without prior invocation of Scan() will return nil.
func (s *Scanner) Records() []Record {
	recs := s.recs
	s.recs = nil
	return recs
}
