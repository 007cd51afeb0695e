package domain

// StationSpec identifies one monitoring station: a human-readable name
// used to key the output file and the numeric id the CO-OPS API knows it
// by. Supplied by configuration and never mutated by the collector.
type StationSpec struct {
	Name     string
	RemoteID string
}
