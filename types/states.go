package types

import (
	"fmt"

	"github.com/sea212/Masterthesis-Superorganism/registry"
)

// States is the phase of the proposal pallet's governance round.
// The numeric value is the SCALE discriminant; never reorder.
type States uint8

const (
	StateUninitialized States = iota
	StatePropose
	StateVotePropose
	StateConcern
	StateVoteConcern
	StateVoteCouncil
)

// NumStates is the number of States variants.
const NumStates = int(StateVoteCouncil) + 1

// String returns the variant name as the registry spells it.
func (s States) String() string {
	if !s.Valid() {
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
	return registry.StateVariants[s]
}

// Valid reports whether s is a defined variant.
func (s States) Valid() bool {
	return int(s) < NumStates
}

// ParseState returns the variant with the given name.
func ParseState(name string) (States, error) {
	for i, v := range registry.StateVariants {
		if v == name {
			return States(i), nil
		}
	}
	return 0, fmt.Errorf("types: unknown state %q", name)
}

// transitions lists the successors the pallet's state_transit may
// pick from each state. Propose stays put while nobody has proposed;
// VotePropose falls back to Propose when no proposal won; Concern
// skips the concern vote when nobody raised one.
var transitions = [NumStates][]States{
	StateUninitialized: {StatePropose},
	StatePropose:       {StatePropose, StateVotePropose},
	StateVotePropose:   {StatePropose, StateConcern},
	StateConcern:       {StateVoteConcern, StateVoteCouncil},
	StateVoteConcern:   {StateVoteCouncil},
	StateVoteCouncil:   {StatePropose},
}

// Successors returns the states s may rotate into.
func (s States) Successors() []States {
	if !s.Valid() {
		return nil
	}
	return append([]States(nil), transitions[s]...)
}

// CanTransit reports whether the runtime may rotate from s to next.
func (s States) CanTransit(next States) bool {
	if !s.Valid() {
		return false
	}
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// StartsRound reports whether rotating from s to next begins a new
// governance round, which is when the pallet increments its round
// counter.
func (s States) StartsRound(next States) bool {
	return next == StatePropose && (s == StateVotePropose || s == StateVoteCouncil)
}

// TypeName returns the registry name of the type.
func (*States) TypeName() string { return registry.TypeStates }
