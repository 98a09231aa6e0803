package services

import (
	"time"

	"github.com/google/uuid"
)

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// RealClock returns the wall clock time in UTC
type RealClock struct{}

// Now returns the current time
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// IDGenerator generates identifiers for areas and climbs
type IDGenerator interface {
	New() string
}

// UUIDGenerator generates random UUIDs
type UUIDGenerator struct{}

// New returns a new random UUID string
func (UUIDGenerator) New() string {
	return uuid.New().String()
}
