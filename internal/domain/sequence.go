package domain

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Sequence mints unique order and customer identities. The counter is the
// only process-wide mutable state in the domain; it is incremented atomically
// and reset only at process start.
type Sequence struct {
	counter atomic.Int64
}

// NewSequence creates a sequence starting at zero.
func NewSequence() *Sequence { return &Sequence{} }

// Next returns the next sequence value, starting at 1.
func (s *Sequence) Next() int64 { return s.counter.Add(1) }

// OrderNumber formats an order number in the form ORD-<year>-<seq>.
func OrderNumber(n int64, now time.Time) string {
	return fmt.Sprintf("ORD-%d-%06d", now.UTC().Year(), n)
}

// CustomerID formats a customer identity for a given sequence value.
func CustomerID(n int64) string { return fmt.Sprintf("CUST-%06d", n) }
