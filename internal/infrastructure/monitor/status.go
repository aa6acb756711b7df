package monitor

import "time"

// Status is the result of the most recent store probe.
type Status struct {
	Store     bool
	LastCheck time.Time
}
