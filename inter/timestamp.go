package inter

import (
	"time"
)

// Timestamp is a block timestamp in milliseconds since the Unix epoch.
type Timestamp uint64

// FromTime converts a time.Time to a consensus Timestamp.
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixNano() / int64(time.Millisecond))
}

// Time converts the Timestamp back to time.Time.
func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t)*int64(time.Millisecond))
}
