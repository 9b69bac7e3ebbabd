package sotest

import (
	"bytes"
	"context"
	"testing"

	"github.com/davecgh/go-spew/spew"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	"github.com/sea212/Masterthesis-Superorganism/registry"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

// Harness drives a registry service from a test, failing the test on
// any unexpected error.
type Harness struct {
	t    *testing.T
	conn superorganism.Connection
}

// NewHarness creates a test harness around conn. The connection is
// closed when the test finishes.
func NewHarness(t *testing.T, conn superorganism.Connection) *Harness {
	t.Helper()
	t.Cleanup(func() { _ = conn.Close() })
	return &Harness{t: t, conn: conn}
}

// Conn returns the underlying connection for direct access.
func (h *Harness) Conn() superorganism.Connection {
	return h.conn
}

// Registry fetches the served registry and parses it.
func (h *Harness) Registry() *registry.Registry {
	h.t.Helper()
	doc, err := h.conn.Registry(context.Background())
	if err != nil {
		h.t.Fatalf("Registry failed: %v", err)
	}
	reg, err := registry.ParseJSON(doc.JSON)
	if err != nil {
		h.t.Fatalf("served registry does not parse: %v", err)
	}
	return reg
}

// Resolve expands name.
func (h *Harness) Resolve(name string) types.Resolution {
	h.t.Helper()
	r, err := h.conn.Resolve(context.Background(), name)
	if err != nil {
		h.t.Fatalf("Resolve(%s) failed: %v", name, err)
	}
	return r
}

// MustEncode encodes rec.
func (h *Harness) MustEncode(rec types.Record) types.Encoded {
	h.t.Helper()
	v, err := types.NewValue(rec)
	if err != nil {
		h.t.Fatal(err)
	}
	enc, err := h.conn.Encode(context.Background(), v)
	if err != nil {
		h.t.Fatalf("Encode(%s) failed: %v", rec.TypeName(), err)
	}
	return enc
}

// MustDecode decodes enc.
func (h *Harness) MustDecode(enc types.Encoded) types.Value {
	h.t.Helper()
	v, err := h.conn.Decode(context.Background(), enc)
	if err != nil {
		h.t.Fatalf("Decode(%s) failed: %v", enc.Kind, err)
	}
	return v
}

// RoundTrip encodes rec, decodes the result and asserts that the
// decoded record encodes to the same bytes.
func (h *Harness) RoundTrip(rec types.Record) types.Value {
	h.t.Helper()
	enc := h.MustEncode(rec)
	v := h.MustDecode(enc)
	again, err := v.Encode()
	if err != nil {
		h.t.Fatalf("re-encode %s: %v", rec.TypeName(), err)
	}
	if again.Kind != enc.Kind || !bytes.Equal(again.Data, enc.Data) {
		h.t.Fatalf("%s round trip mismatch:\n  first:  %x\n  second: %x\ndecoded: %s",
			rec.TypeName(), enc.Data, again.Data, spew.Sdump(v))
	}
	return v
}

// State reports the tracked governance phase.
func (h *Harness) State() types.StateReport {
	h.t.Helper()
	r, err := h.conn.State(context.Background())
	if err != nil {
		h.t.Fatalf("State failed: %v", err)
	}
	return r
}

// MustRotate asserts that rotating to next is accepted.
func (h *Harness) MustRotate(next types.States) types.StateReport {
	h.t.Helper()
	r, err := h.conn.Rotate(context.Background(), next)
	if err != nil {
		h.t.Fatalf("Rotate(%s) failed: %v", next, err)
	}
	return r
}

// MustRejectRotate asserts that rotating to next is rejected with a
// TransitionError.
func (h *Harness) MustRejectRotate(next types.States) *superorganism.TransitionError {
	h.t.Helper()
	_, err := h.conn.Rotate(context.Background(), next)
	te, ok := superorganism.IsTransition(err)
	if !ok {
		h.t.Fatalf("Rotate(%s): expected TransitionError, got %v", next, err)
	}
	return te
}

// FullRound rotates through a complete round with a concern phase and
// returns the report after re-entering Propose.
func (h *Harness) FullRound() types.StateReport {
	h.t.Helper()
	h.MustRotate(types.StateVotePropose)
	h.MustRotate(types.StateConcern)
	h.MustRotate(types.StateVoteConcern)
	h.MustRotate(types.StateVoteCouncil)
	return h.MustRotate(types.StatePropose)
}
