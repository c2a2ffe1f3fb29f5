package checkout

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	orderIDPrefix  = "GC"
	trackingPrefix = "TRK"
	base36Digits   = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLength   = 6
)

// IDGenerator produces order ids and tracking numbers. Neither is guaranteed unique; they are
// display identifiers for an order that is never stored.
type IDGenerator struct {
	Now  func() time.Time
	IntN func(n int) int
}

// DefaultIDGenerator uses the wall clock and math/rand/v2.
func DefaultIDGenerator() IDGenerator {
	return IDGenerator{Now: time.Now, IntN: rand.IntN}
}

// OrderID returns "GC-<base36 unix millis>-<6 random base36 chars>", upper-cased.
func (g IDGenerator) OrderID() string {
	ts := strconv.FormatInt(g.Now().UnixMilli(), 36)
	var suffix strings.Builder
	for range suffixLength {
		suffix.WriteByte(base36Digits[g.IntN(len(base36Digits))])
	}
	return strings.ToUpper(orderIDPrefix + "-" + ts + "-" + suffix.String())
}

// TrackingNumber returns "TRK" followed by a zero-padded 9 digit random number.
func (g IDGenerator) TrackingNumber() string {
	return fmt.Sprintf("%s%09d", trackingPrefix, g.IntN(1_000_000_000))
}
