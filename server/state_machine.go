// Package server provides the registry service implementation: type
// resolution and record encoding over a validated registry, plus a
// tracker of the proposal pallet's governance round.
package server

import (
	"go.uber.org/atomic"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

// RoundTracker follows the proposal pallet's state machine from the
// StateRotated events it is fed:
//
//	Uninitialized → Propose
//	Propose       → Propose | VotePropose
//	VotePropose   → Propose | Concern
//	Concern       → VoteConcern | VoteCouncil
//	VoteConcern   → VoteCouncil
//	VoteCouncil   → Propose
//
// Returning to Propose from VotePropose or VoteCouncil starts a new
// round; the round counter wraps at 255 like the pallet's u8.
type RoundTracker struct {
	// Low byte: state. Second byte: round.
	packed atomic.Uint32
}

func pack(s types.States, round uint8) uint32 {
	return uint32(round)<<8 | uint32(s)
}

func unpack(v uint32) (types.States, uint8) {
	return types.States(v & 0xFF), uint8(v >> 8)
}

// NewRoundTracker creates a tracker in the Uninitialized state at
// round zero.
func NewRoundTracker() *RoundTracker {
	t := &RoundTracker{}
	t.packed.Store(pack(types.StateUninitialized, 0))
	return t
}

// Current returns the tracked state and round.
func (t *RoundTracker) Current() types.StateReport {
	s, r := unpack(t.packed.Load())
	return types.StateReport{State: s, Round: r}
}

// Rotate applies a transition to next. Illegal transitions leave the
// tracker unchanged and return a TransitionError.
func (t *RoundTracker) Rotate(next types.States) (types.StateReport, error) {
	for {
		old := t.packed.Load()
		cur, round := unpack(old)
		if !cur.CanTransit(next) {
			return types.StateReport{State: cur, Round: round}, superorganism.NewTransitionError(cur, next)
		}
		if cur.StartsRound(next) {
			round++
		}
		if t.packed.CompareAndSwap(old, pack(next, round)) {
			return types.StateReport{State: next, Round: round}, nil
		}
	}
}

// Reset forces the tracker to a known position, e.g. after reading the
// pallet's State and Round storage directly.
func (t *RoundTracker) Reset(s types.States, round uint8) error {
	if !s.Valid() {
		return superorganism.NewTransitionError(t.Current().State, s)
	}
	t.packed.Store(pack(s, round))
	return nil
}
