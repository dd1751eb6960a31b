package sharepoint

import (
	"fmt"
	"math/rand/v2"
)

const (
	ticketMin    = 100
	ticketMax    = 999
	ticketPrefix = "SHP-"
)

// RandSource yields an integer in [lo, hi], both inclusive.
type RandSource interface {
	IntInRange(lo, hi int) int
}

type mathRand struct{}

func (mathRand) IntInRange(lo, hi int) int { return lo + rand.IntN(hi-lo+1) }

// DefaultRand draws from the runtime's shared generator.
var DefaultRand RandSource = mathRand{}

// newTicket formats a provisioning ticket id. Ids are not unique across calls.
func newTicket(src RandSource) string {
	return fmt.Sprintf("%s%d", ticketPrefix, src.IntInRange(ticketMin, ticketMax))
}
