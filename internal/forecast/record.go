package forecast

// Record is a collection of channel values predicted for a given geo location
// at a given valid time.
type Record struct {
	// Dimensions
	Timestamp int64 // unix milliseconds
	IC        int
	LeadTime  int
	Latitude  float32
	Longitude float32

	// Metrics, in channel order.
	Values []float64
}
