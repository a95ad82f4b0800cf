package domain

import (
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// clock stamps ProcessedAt on result records so tests can freeze time via SetClock.
var clock = clockwork.NewRealClock()

// newID assigns ids to requests that arrive without one.
var newID = uuid.NewString

// SetClock swaps the time source for result records. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
