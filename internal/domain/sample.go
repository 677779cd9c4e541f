package domain

import (
	"strconv"
	"time"
)

// Sample is one timestamped observation of a process's memory usage.
// Resident and Virtual hold the literal kB tokens read from the status record.
type Sample struct {
	PID       string    `json:"pid"`
	Timestamp time.Time `json:"ts"`
	Resident  string    `json:"resident"`
	Virtual   string    `json:"virtual"`
}

// EpochSeconds renders the timestamp as fractional seconds since the epoch.
func (s *Sample) EpochSeconds() string {
	secs := float64(s.Timestamp.Unix()) + float64(s.Timestamp.Nanosecond())/float64(time.Second)
	return strconv.FormatFloat(secs, 'f', -1, 64)
}

// Line is the plain-text output form: "<timestamp> <resident> <virtual>".
func (s *Sample) Line() string {
	return s.EpochSeconds() + " " + s.Resident + " " + s.Virtual
}
