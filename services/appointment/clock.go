package appointment

import (
	"fmt"
	"time"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}

// FixedOffsetZone returns a zone at a constant offset from UTC. There is
// no daylight-saving handling: -5 is always UTC-5.
func FixedOffsetZone(hours int) *time.Location {
	sign := "+"
	if hours < 0 {
		sign = "-"
	}
	abs := hours
	if abs < 0 {
		abs = -abs
	}
	return time.FixedZone(fmt.Sprintf("UTC%s%02d", sign, abs), hours*60*60)
}
