package pallet

import (
	"context"
	"errors"
	"testing"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	"github.com/sea212/Masterthesis-Superorganism/local"
	sotest "github.com/sea212/Masterthesis-Superorganism/testing"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

func newPallet(t *testing.T, council CouncilFunc) (*Pallet, *local.Connection) {
	t.Helper()
	conn, err := local.Default()
	if err != nil {
		t.Fatalf("local.Default: %v", err)
	}
	return New(conn, DefaultConfig(), council), conn
}

func transit(t *testing.T, p *Pallet, want types.States) types.StateReport {
	t.Helper()
	r, err := p.StateTransit(context.Background(), 1_000)
	if err != nil {
		t.Fatalf("StateTransit: %v", err)
	}
	if r.State != want {
		t.Fatalf("state = %s, want %s", r.State, want)
	}
	return r
}

func approve(types.ProposalWinner) (uint32, uint32) { return 3, 1 }

func TestPallet_FullRound(t *testing.T) {
	p, conn := newPallet(t, approve)
	garden := sotest.SampleCID("build a community garden")
	hall := sotest.SampleCID("repaint the town hall")
	water := sotest.SampleCID("the garden needs water rights")

	transit(t, p, types.StatePropose)
	if err := p.Propose(sotest.SampleAccount(1), garden); err != nil {
		t.Fatal(err)
	}
	if err := p.Propose(sotest.SampleAccount(2), hall); err != nil {
		t.Fatal(err)
	}
	if err := p.Propose(sotest.SampleAccount(3), garden); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	transit(t, p, types.StateVotePropose)
	for i := 0; i < 3; i++ {
		if err := p.VoteProposal(garden); err != nil {
			t.Fatal(err)
		}
	}
	if err := p.VoteProposal(hall); err != nil {
		t.Fatal(err)
	}

	transit(t, p, types.StateConcern)
	winners := p.Winners()
	if len(winners) != 2 {
		t.Fatalf("expected 2 winners, got %d", len(winners))
	}
	// Ascending by vote ratio.
	if !winners[0].Proposal.Equal(hall) || winners[0].VoteRatio != 250_000 {
		t.Fatalf("first winner = %+v", winners[0])
	}
	if winners[1].Proposer != sotest.SampleAccount(1) || winners[1].VoteRatio != 750_000 {
		t.Fatalf("second winner = %+v", winners[1])
	}

	if err := p.Concern(sotest.SampleAccount(4), water, garden); err != nil {
		t.Fatal(err)
	}
	transit(t, p, types.StateVoteConcern)
	if err := p.VoteConcern(water, garden); err != nil {
		t.Fatal(err)
	}
	transit(t, p, types.StateVoteCouncil)
	winners = p.Winners()
	if len(winners[1].Concerns) != 1 || !winners[1].Concerns[0].Equal(water) {
		t.Fatalf("concern not attached: %+v", winners[1])
	}

	enc, err := p.EncodedWinners(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if enc.Kind != types.RecordWinners {
		t.Fatalf("kind = %s", enc.Kind)
	}

	r := transit(t, p, types.StatePropose)
	if r.Round != 1 {
		t.Fatalf("round = %d, want 1", r.Round)
	}
	projects := p.Projects()
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[1].ID != 1 || projects[1].Deadline != 1_000+DefaultConfig().ProjectDuration {
		t.Fatalf("unexpected project %+v", projects[1])
	}

	// The service followed every rotation.
	if s, _ := conn.State(context.Background()); s != p.State() {
		t.Fatalf("service %+v, pallet %+v", s, p.State())
	}
}

func TestPallet_NoVotesRestartsRound(t *testing.T) {
	p, _ := newPallet(t, approve)
	transit(t, p, types.StatePropose)
	// Nobody proposed: stays in Propose.
	transit(t, p, types.StatePropose)

	if err := p.Propose(sotest.SampleAccount(1), sotest.SampleCID("x")); err != nil {
		t.Fatal(err)
	}
	transit(t, p, types.StateVotePropose)
	r := transit(t, p, types.StatePropose)
	if r.Round != 1 {
		t.Fatalf("round = %d, want 1", r.Round)
	}
}

func TestPallet_CouncilDenies(t *testing.T) {
	deny := func(types.ProposalWinner) (uint32, uint32) { return 1, 1 }
	p, _ := newPallet(t, deny)
	garden := sotest.SampleCID("build a community garden")

	transit(t, p, types.StatePropose)
	if err := p.Propose(sotest.SampleAccount(1), garden); err != nil {
		t.Fatal(err)
	}
	transit(t, p, types.StateVotePropose)
	if err := p.VoteProposal(garden); err != nil {
		t.Fatal(err)
	}
	transit(t, p, types.StateConcern)
	// No concerns skips VoteConcern.
	transit(t, p, types.StateVoteCouncil)
	transit(t, p, types.StatePropose)
	if n := len(p.Projects()); n != 0 {
		t.Fatalf("expected no projects, got %d", n)
	}
}

func TestPallet_WrongState(t *testing.T) {
	p, _ := newPallet(t, approve)
	if err := p.Propose(sotest.SampleAccount(1), sotest.SampleCID("x")); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState, got %v", err)
	}
	transit(t, p, types.StatePropose)
	if err := p.VoteProposal(sotest.SampleCID("x")); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState, got %v", err)
	}
}

func TestPallet_RejectedRotationKeepsState(t *testing.T) {
	mock := &sotest.MockService{
		RotateFn: func(_ context.Context, next types.States) (types.StateReport, error) {
			return types.StateReport{}, superorganism.NewTransitionError(types.StateVoteCouncil, next)
		},
	}
	p := New(mock, DefaultConfig(), approve)
	_, err := p.StateTransit(context.Background(), 1)
	if _, ok := superorganism.IsTransition(err); !ok {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if s := p.State(); s.State != types.StateUninitialized {
		t.Fatalf("state changed to %s", s.State)
	}
	if mock.RotateCalls.Load() != 1 {
		t.Fatalf("rotate calls = %d", mock.RotateCalls.Load())
	}
}
