package forecast

import "time"

// TimeTable holds the valid time of every (ic, t) pair of a forecast:
// table[ic][t] = init + timestep*(ic + t).
type TimeTable [][]time.Time

// NewTimeTable builds the table from one forecast's worth of lead times,
// shifted by one timestep per initial condition.
func NewTimeTable(init time.Time, timestep time.Duration, nIC, nT int) TimeTable {
	if nIC <= 0 || nT <= 0 {
		return TimeTable{}
	}
	lead := make([]time.Time, nT)
	for t := range lead {
		lead[t] = init.Add(time.Duration(t) * timestep)
	}
	table := make(TimeTable, nIC)
	for ic := range table {
		offset := time.Duration(ic) * timestep
		row := make([]time.Time, nT)
		for t, ts := range lead {
			row[t] = ts.Add(offset)
		}
		table[ic] = row
	}
	return table
}

// Hours returns the table as hours elapsed since init.
func (tt TimeTable) Hours(init time.Time) [][]float64 {
	out := make([][]float64, len(tt))
	for ic, row := range tt {
		out[ic] = make([]float64, len(row))
		for t, ts := range row {
			out[ic][t] = ts.Sub(init).Hours()
		}
	}
	return out
}

// FromHours is the inverse of Hours.
func FromHours(init time.Time, hours [][]float64) TimeTable {
	table := make(TimeTable, len(hours))
	for ic, row := range hours {
		table[ic] = make([]time.Time, len(row))
		for t, h := range row {
			table[ic][t] = init.Add(time.Duration(h * float64(time.Hour)))
		}
	}
	return table
}
