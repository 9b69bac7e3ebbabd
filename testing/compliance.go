package sotest

import (
	"context"
	"errors"
	"sync"
	"testing"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	"github.com/sea212/Masterthesis-Superorganism/registry"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

// RunComplianceSuite runs a standard test suite against a registry
// service serving the superorganism registry.
//
// The factory function should return a fresh connection for each
// test; rotation tests assume it starts Uninitialized at round zero.
func RunComplianceSuite(t *testing.T, factory func(t *testing.T) superorganism.Connection) {
	t.Helper()

	t.Run("registry_matches_superorganism", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		reg := h.Registry()
		if changes := registry.Superorganism().Diff(reg); len(changes) != 0 {
			t.Fatalf("served registry differs: %v", changes)
		}
	})

	t.Run("registry_names_in_order", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		doc, err := h.Conn().Registry(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		want := registry.Superorganism().Names()
		if len(doc.Names) != len(want) {
			t.Fatalf("expected %d names, got %d", len(want), len(doc.Names))
		}
		for i := range want {
			if doc.Names[i] != want[i] {
				t.Errorf("name %d: got %s, want %s", i, doc.Names[i], want[i])
			}
		}
	})

	t.Run("resolve_aliases", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		if r := h.Resolve(registry.TypeDocumentCID); r.Expr != "Vec<u8>" {
			t.Errorf("DocumentCID resolved to %s", r.Expr)
		}
		if r := h.Resolve(registry.TypePRJ); r.Expr != registry.TypeProject || r.Kind != "struct" {
			t.Errorf("PRJ resolved to %+v", r)
		}
	})

	t.Run("resolve_unknown", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		_, err := h.Conn().Resolve(context.Background(), "NoSuchType")
		if !errors.Is(err, superorganism.ErrUnknownType) {
			t.Fatalf("expected ErrUnknownType, got %v", err)
		}
	})

	t.Run("records_round_trip", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		for _, rec := range SampleRecords() {
			h.RoundTrip(rec)
		}
	})

	t.Run("state_is_one_byte", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		s := types.StatePropose
		enc := h.MustEncode(&s)
		if enc.Kind != types.RecordState || len(enc.Data) != 1 || enc.Data[0] != 1 {
			t.Fatalf("unexpected encoding %+v", enc)
		}
	})

	t.Run("decode_rejects_trailing_bytes", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		p := SampleProposal()
		enc := h.MustEncode(&p)
		enc.Data = append(enc.Data, 0x00)
		if _, err := h.Conn().Decode(context.Background(), enc); err == nil {
			t.Fatal("expected error for trailing bytes")
		}
	})

	t.Run("encode_rejects_empty_value", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		if _, err := h.Conn().Encode(context.Background(), types.Value{}); err == nil {
			t.Fatal("expected error for empty value")
		}
	})

	t.Run("rotation_counts_rounds", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		if s := h.State(); s.State != types.StateUninitialized || s.Round != 0 {
			t.Fatalf("unexpected initial state %+v", s)
		}
		h.MustRotate(types.StatePropose)
		if r := h.FullRound(); r.Round != 1 {
			t.Fatalf("expected round 1, got %d", r.Round)
		}
		if r := h.FullRound(); r.Round != 2 {
			t.Fatalf("expected round 2, got %d", r.Round)
		}
	})

	t.Run("rotation_rejects_illegal", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		h.MustRotate(types.StatePropose)
		te := h.MustRejectRotate(types.StateVoteCouncil)
		if te.From != types.StatePropose || te.To != types.StateVoteCouncil {
			t.Fatalf("unexpected transition error %+v", te)
		}
		if s := h.State(); s.State != types.StatePropose {
			t.Fatalf("rejected rotation changed state to %s", s.State)
		}
	})

	t.Run("rejected_rotation_reports_state", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		h.MustRotate(types.StatePropose)
		h.FullRound()
		rep, err := h.Conn().Rotate(context.Background(), types.StateVoteConcern)
		if !errors.Is(err, superorganism.ErrIllegalTransition) {
			t.Fatalf("expected ErrIllegalTransition, got %v", err)
		}
		if rep.State != types.StatePropose || rep.Round != 1 {
			t.Fatalf("rejected rotation reported %+v, want Propose round 1", rep)
		}
	})

	t.Run("concurrent_reads", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ctx := context.Background()
				if _, err := h.Conn().Registry(ctx); err != nil {
					t.Errorf("concurrent Registry failed: %v", err)
				}
				if _, err := h.Conn().Resolve(ctx, registry.TypeTicket); err != nil {
					t.Errorf("concurrent Resolve failed: %v", err)
				}
			}()
		}
		wg.Wait()
	})
}
