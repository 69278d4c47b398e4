package state

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Clock returns the current time.
type Clock func() time.Time

// IDSource generates identifiers for new entities, queue tokens and history
// hash nonces.
type IDSource interface {
	NewID() string
	NextToken() string
	Nonce() string
}

// RandomIDs issues UUIDs and tokens from a monotonic counter.
type RandomIDs struct {
	floor  uint32
	tokens atomic.Uint32
}

// NewRandomIDs returns a source whose first token is start+1. Once the
// counter passes TKN-9999 it wraps back to start+1.
func NewRandomIDs(start uint32) *RandomIDs {
	ids := &RandomIDs{floor: start}
	ids.tokens.Store(start)
	return ids
}

func (r *RandomIDs) NewID() string { return uuid.NewString() }

func (r *RandomIDs) NextToken() string {
	return formatToken(r.tokens.Add(1), r.floor)
}

func (r *RandomIDs) Nonce() string { return uuid.NewString() }

// SequentialIDs issues predictable identifiers.
type SequentialIDs struct {
	prefix string
	n      atomic.Uint64
	tokens atomic.Uint32
}

func NewSequentialIDs(prefix string) *SequentialIDs {
	ids := &SequentialIDs{prefix: prefix}
	ids.tokens.Store(sequentialTokenFloor)
	return ids
}

func (s *SequentialIDs) NewID() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.n.Add(1))
}

func (s *SequentialIDs) NextToken() string {
	return formatToken(s.tokens.Add(1), sequentialTokenFloor)
}

func (s *SequentialIDs) Nonce() string {
	return fmt.Sprintf("nonce-%d", s.n.Add(1))
}

const (
	maxToken             = 9999
	sequentialTokenFloor = 999
)

// formatToken maps counter n into floor+1..maxToken, so a wrapped counter
// never reissues a number at or below floor.
func formatToken(n, floor uint32) string {
	span := maxToken - floor
	return fmt.Sprintf("TKN-%04d", floor+1+(n-floor-1)%span)
}
