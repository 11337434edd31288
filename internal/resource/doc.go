// Package resource accounts the memory held by the message buffers of a run.
//
// A Controller hands out byte reservations against an optional hard limit
// backed by a weighted semaphore. Reservations never block: a grow that does
// not fit fails with ErrLimitExceeded and the run aborts with an allocation
// failure instead of letting the process run out of memory.
//
//	rc := resource.NewController(resource.Config{LimitBytes: 1 << 30})
//	if err := rc.Reserve(grownBytes); err != nil {
//	    // allocation failure
//	}
//
// All methods are safe for concurrent use and no-ops on a nil Controller.
package resource
