package types_test

import (
	"bytes"
	"testing"

	"github.com/sea212/Masterthesis-Superorganism/types"

	"github.com/blockberries/cramberry/pkg/cramberry"
)

// roundTrip marshals v, unmarshals into a new T, and returns it.
func roundTrip[T any](t *testing.T, v T) T {
	t.Helper()
	data, err := cramberry.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var out T
	if err := cramberry.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	return out
}

func account(seed byte) types.AccountID {
	var a types.AccountID
	for i := range a {
		a[i] = seed + byte(i)
	}
	return a
}

func TestProposal_RoundTrip(t *testing.T) {
	v := types.Proposal{Proposal: types.ProposalCID("QmProposal"), Votes: 7}
	got := roundTrip(t, v)
	if !got.Proposal.Equal(v.Proposal) || got.Votes != 7 {
		t.Fatalf("Proposal round-trip failed: got %+v", got)
	}
}

func TestWorker_RoundTrip(t *testing.T) {
	v := types.NewWorker(account(1), types.DocumentCID("QmJob"), types.NewBalance(5000), 42)
	got := roundTrip(t, v)
	if got.Worker != v.Worker || got.Salary != v.Salary || got.Hired != 42 {
		t.Fatalf("Worker round-trip failed: got %+v", got)
	}
}

func TestProject_RoundTrip(t *testing.T) {
	leader := types.NewWorker(account(9), types.DocumentCID("QmLead"), types.NewBalance(1), 3)
	v := types.Project{
		ID: 4,
		Proposal: types.ProposalWinner{
			Concerns:  []types.ConcernCID{types.ConcernCID("QmC1")},
			Proposer:  account(2),
			Proposal:  types.ProposalCID("QmP"),
			VoteRatio: 750_000,
		},
		ProjectLeader: &leader,
		OpenPositions: []types.DocumentCID{types.DocumentCID("QmPos")},
		Workers:       []types.Worker{leader},
		Deadline:      1000,
	}
	got := roundTrip(t, v)
	if got.ID != 4 || got.Deadline != 1000 {
		t.Fatalf("Project round-trip failed: got %+v", got)
	}
	if got.ProjectLeader == nil || got.ProjectLeader.Worker != leader.Worker {
		t.Fatalf("Project.ProjectLeader mismatch")
	}
	if len(got.Workers) != 1 || len(got.OpenPositions) != 1 {
		t.Fatalf("Project slices wrong")
	}
	if got.Proposal.VoteRatio != 750_000 || len(got.Proposal.Concerns) != 1 {
		t.Fatalf("Project.Proposal mismatch: %+v", got.Proposal)
	}
}

func TestValue_RoundTrip(t *testing.T) {
	s := types.StateVoteConcern
	v := types.Value{State: &s}
	got := roundTrip(t, v)
	rec, kind, err := got.Record()
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if kind != types.RecordState || *rec.(*types.States) != types.StateVoteConcern {
		t.Fatalf("Value round-trip failed: %v %v", kind, rec)
	}
}

func TestValue_ZeroRecordsSurvive(t *testing.T) {
	state := types.StateUninitialized
	records := []types.Record{&state, new(types.Proposal), new(types.VecDeque)}
	for _, rec := range records {
		v, err := types.NewValue(rec)
		if err != nil {
			t.Fatal(err)
		}
		got, err := roundTrip(t, v).Tagged()
		if err != nil {
			t.Fatalf("%s: %v", rec.TypeName(), err)
		}
		back, kind, err := got.Record()
		if err != nil {
			t.Fatalf("%s: Record: %v", rec.TypeName(), err)
		}
		if kind != v.Kind || back.TypeName() != rec.TypeName() {
			t.Fatalf("%s: got kind %s record %T", rec.TypeName(), kind, back)
		}
	}
	got, err := roundTrip(t, types.Value{Kind: types.RecordState, State: &state}).Tagged()
	if err != nil {
		t.Fatal(err)
	}
	if got.State == nil || *got.State != types.StateUninitialized {
		t.Fatalf("state member not restored: %+v", got)
	}
}

func TestEncoded_RoundTrip(t *testing.T) {
	v := types.Encoded{Kind: types.RecordConcern, Data: []byte{1, 2, 3}}
	got := roundTrip(t, v)
	if got.Kind != v.Kind || !bytes.Equal(got.Data, v.Data) {
		t.Fatalf("Encoded round-trip failed: got %+v", got)
	}
}

func TestStateReport_RoundTrip(t *testing.T) {
	v := types.StateReport{State: types.StatePropose, Round: 255}
	got := roundTrip(t, v)
	if got != v {
		t.Fatalf("StateReport round-trip failed: got %+v", got)
	}
}

// TestDeterminism verifies that the same struct always produces
// the same bytes (cramberry's core guarantee).
func TestDeterminism(t *testing.T) {
	v := types.ProposalWinner{
		Concerns: []types.ConcernCID{types.ConcernCID("a"), types.ConcernCID("b")},
		Proposer: account(3),
		Proposal: types.ProposalCID("p"),
	}
	data1, err := cramberry.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	data2, err := cramberry.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data1, data2) {
		t.Fatalf("non-deterministic: %x vs %x", data1, data2)
	}
}
