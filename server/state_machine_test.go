package server

import (
	"errors"
	"sync"
	"testing"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

func mustRotate(t *testing.T, rt *RoundTracker, next types.States) types.StateReport {
	t.Helper()
	r, err := rt.Rotate(next)
	if err != nil {
		t.Fatalf("Rotate(%s): %v", next, err)
	}
	return r
}

func TestRoundTracker_HappyPath(t *testing.T) {
	rt := NewRoundTracker()

	if cur := rt.Current(); cur.State != types.StateUninitialized || cur.Round != 0 {
		t.Fatalf("unexpected initial state %+v", cur)
	}

	// Full round with concerns.
	mustRotate(t, rt, types.StatePropose)
	mustRotate(t, rt, types.StateVotePropose)
	mustRotate(t, rt, types.StateConcern)
	mustRotate(t, rt, types.StateVoteConcern)
	mustRotate(t, rt, types.StateVoteCouncil)
	r := mustRotate(t, rt, types.StatePropose)
	if r.Round != 1 {
		t.Fatalf("expected round 1 after council, got %d", r.Round)
	}

	// Round without concerns skips VoteConcern.
	mustRotate(t, rt, types.StateVotePropose)
	mustRotate(t, rt, types.StateConcern)
	mustRotate(t, rt, types.StateVoteCouncil)
	r = mustRotate(t, rt, types.StatePropose)
	if r.Round != 2 {
		t.Fatalf("expected round 2, got %d", r.Round)
	}
}

func TestRoundTracker_NoWinnerStartsNewRound(t *testing.T) {
	rt := NewRoundTracker()
	mustRotate(t, rt, types.StatePropose)
	// Propose stays while nobody proposed; that is not a new round.
	r := mustRotate(t, rt, types.StatePropose)
	if r.Round != 0 {
		t.Fatalf("idle Propose should keep round 0, got %d", r.Round)
	}
	mustRotate(t, rt, types.StateVotePropose)
	r = mustRotate(t, rt, types.StatePropose)
	if r.Round != 1 {
		t.Fatalf("expected round 1, got %d", r.Round)
	}
}

func TestRoundTracker_RoundWraps(t *testing.T) {
	rt := NewRoundTracker()
	if err := rt.Reset(types.StateVoteCouncil, 255); err != nil {
		t.Fatal(err)
	}
	r := mustRotate(t, rt, types.StatePropose)
	if r.Round != 0 {
		t.Fatalf("expected round to wrap to 0, got %d", r.Round)
	}
}

func TestRoundTracker_IllegalTransition(t *testing.T) {
	rt := NewRoundTracker()

	_, err := rt.Rotate(types.StateVoteCouncil)
	te, ok := superorganism.IsTransition(err)
	if !ok {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if te.From != types.StateUninitialized || te.To != types.StateVoteCouncil {
		t.Fatalf("unexpected error contents %+v", te)
	}
	if !errors.Is(err, superorganism.ErrIllegalTransition) {
		t.Fatal("expected ErrIllegalTransition")
	}
	if rt.Current().State != types.StateUninitialized {
		t.Fatal("illegal rotation must not change state")
	}
}

func TestRoundTracker_ResetInvalid(t *testing.T) {
	rt := NewRoundTracker()
	if err := rt.Reset(types.States(42), 0); err == nil {
		t.Fatal("expected error for invalid state")
	}
}

func TestRoundTracker_Concurrent(t *testing.T) {
	rt := NewRoundTracker()
	mustRotate(t, rt, types.StatePropose)

	// Propose → Propose is always legal, so every goroutine succeeds.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := rt.Rotate(types.StatePropose); err != nil {
				t.Errorf("Rotate: %v", err)
			}
		}()
	}
	wg.Wait()

	if cur := rt.Current(); cur.State != types.StatePropose || cur.Round != 0 {
		t.Fatalf("unexpected state %+v", cur)
	}
}
