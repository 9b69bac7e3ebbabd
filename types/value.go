package types

import (
	"errors"
	"fmt"
)

// RecordKind identifies which record a Value or Encoded carries.
type RecordKind uint8

const (
	RecordState RecordKind = iota + 1
	RecordProposal
	RecordConcern
	RecordProposalWinner
	RecordWinners
	RecordWorker
	RecordProject
)

func (k RecordKind) String() string {
	switch k {
	case RecordState:
		return "States"
	case RecordProposal:
		return "Proposal"
	case RecordConcern:
		return "Concern"
	case RecordProposalWinner:
		return "ProposalWinner"
	case RecordWinners:
		return "VecDeque"
	case RecordWorker:
		return "Worker"
	case RecordProject:
		return "Project"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ErrEmptyValue is returned for a Value that carries no record.
var ErrEmptyValue = errors.New("types: value carries no record")

// Value is a tagged union carrying exactly one runtime record across
// a transport boundary.
//
// Kind names the carried record. Transports may drop a pointer to a
// zero-valued record, so a Value with Kind set and its member missing
// carries the zero record of that kind.
type Value struct {
	Kind     RecordKind      `cramberry:"1"`
	State    *States         `cramberry:"2"`
	Proposal *Proposal       `cramberry:"3"`
	Concern  *Concern        `cramberry:"4"`
	Winner   *ProposalWinner `cramberry:"5"`
	Winners  *VecDeque       `cramberry:"6"`
	Worker   *Worker         `cramberry:"7"`
	Project  *Project        `cramberry:"8"`
}

// NewValue wraps r. r must be one of the record pointer types of this
// package.
func NewValue(r Record) (Value, error) {
	switch v := r.(type) {
	case *States:
		return Value{Kind: RecordState, State: v}, nil
	case *Proposal:
		return Value{Kind: RecordProposal, Proposal: v}, nil
	case *Concern:
		return Value{Kind: RecordConcern, Concern: v}, nil
	case *ProposalWinner:
		return Value{Kind: RecordProposalWinner, Winner: v}, nil
	case *VecDeque:
		return Value{Kind: RecordWinners, Winners: v}, nil
	case *Worker:
		return Value{Kind: RecordWorker, Worker: v}, nil
	case *Project:
		return Value{Kind: RecordProject, Project: v}, nil
	default:
		return Value{}, fmt.Errorf("types: %T is not a runtime record", r)
	}
}

// Record returns the carried record and its kind. An untagged Value
// must have exactly one member set. A tagged Value may have none, in
// which case the zero record of its kind is returned.
func (v Value) Record() (Record, RecordKind, error) {
	rec, kind, err := v.member()
	if v.Kind == 0 {
		return rec, kind, err
	}
	switch {
	case errors.Is(err, ErrEmptyValue):
		zero, err := NewRecord(v.Kind)
		if err != nil {
			return nil, 0, err
		}
		return zero, v.Kind, nil
	case err != nil:
		return nil, 0, err
	case kind != v.Kind:
		return nil, 0, fmt.Errorf("types: value tagged %s carries %s", v.Kind, kind)
	}
	return rec, kind, nil
}

// Tagged returns v with Kind set and the member of that kind
// populated, restoring a zero record a transport dropped.
func (v Value) Tagged() (Value, error) {
	rec, _, err := v.Record()
	if err != nil {
		return Value{}, err
	}
	return NewValue(rec)
}

func (v Value) member() (Record, RecordKind, error) {
	var (
		rec   Record
		kind  RecordKind
		count int
	)
	set := func(r Record, k RecordKind) {
		rec, kind = r, k
		count++
	}
	if v.State != nil {
		set(v.State, RecordState)
	}
	if v.Proposal != nil {
		set(v.Proposal, RecordProposal)
	}
	if v.Concern != nil {
		set(v.Concern, RecordConcern)
	}
	if v.Winner != nil {
		set(v.Winner, RecordProposalWinner)
	}
	if v.Winners != nil {
		set(v.Winners, RecordWinners)
	}
	if v.Worker != nil {
		set(v.Worker, RecordWorker)
	}
	if v.Project != nil {
		set(v.Project, RecordProject)
	}
	switch count {
	case 0:
		return nil, 0, ErrEmptyValue
	case 1:
		return rec, kind, nil
	default:
		return nil, 0, fmt.Errorf("types: value carries %d records, want 1", count)
	}
}

// NewRecord returns a zero record of the given kind.
func NewRecord(kind RecordKind) (Record, error) {
	switch kind {
	case RecordState:
		return new(States), nil
	case RecordProposal:
		return new(Proposal), nil
	case RecordConcern:
		return new(Concern), nil
	case RecordProposalWinner:
		return new(ProposalWinner), nil
	case RecordWinners:
		return new(VecDeque), nil
	case RecordWorker:
		return new(Worker), nil
	case RecordProject:
		return new(Project), nil
	default:
		return nil, fmt.Errorf("types: unknown record kind %d", uint8(kind))
	}
}

// Encode returns the SCALE encoding of the carried record.
func (v Value) Encode() (Encoded, error) {
	rec, kind, err := v.Record()
	if err != nil {
		return Encoded{}, err
	}
	data, err := MarshalScale(rec)
	if err != nil {
		return Encoded{}, fmt.Errorf("types: %s: %w", kind, err)
	}
	return Encoded{Kind: kind, Data: data}, nil
}

// Decode parses the SCALE bytes of e into a Value.
func (e Encoded) Decode() (Value, error) {
	rec, err := NewRecord(e.Kind)
	if err != nil {
		return Value{}, err
	}
	if err := UnmarshalScale(e.Data, rec); err != nil {
		return Value{}, fmt.Errorf("types: %s: %w", e.Kind, err)
	}
	return NewValue(rec)
}

// Encoded is the SCALE wire form of a record, tagged with its kind.
type Encoded struct {
	Kind RecordKind `cramberry:"1"`
	Data []byte     `cramberry:"2"`
}
