package checker

import "time"

// Status represents the observed state of a service.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Result is the outcome of a single service check.
type Result struct {
	// Ok reports whether the service looked healthy.
	Ok bool
	// Detail is a short human-readable explanation of the outcome,
	// set for healthy and unhealthy results alike.
	Detail string
	// Elapsed is how long the underlying probe or render took.
	Elapsed time.Duration
}

// Status maps the boolean outcome to a display status.
func (r Result) Status() Status {
	if r.Ok {
		return StatusUp
	}
	return StatusDown
}
