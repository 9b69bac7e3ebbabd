package sotest_test

import (
	"context"
	"errors"
	"testing"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	sotest "github.com/sea212/Masterthesis-Superorganism/testing"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

func TestMockService_Compliance(t *testing.T) {
	sotest.RunComplianceSuite(t, func(*testing.T) superorganism.Connection {
		return &sotest.MockService{}
	})
}

func TestMockService_Overrides(t *testing.T) {
	boom := errors.New("boom")
	m := &sotest.MockService{
		ResolveFn: func(context.Context, string) (types.Resolution, error) {
			return types.Resolution{}, boom
		},
	}
	if _, err := m.Resolve(context.Background(), "Ticket"); !errors.Is(err, boom) {
		t.Fatalf("expected override error, got %v", err)
	}
	if _, err := m.State(context.Background()); err != nil {
		t.Fatalf("State: %v", err)
	}
	if m.ResolveCalls.Load() != 1 || m.StateCalls.Load() != 1 {
		t.Fatalf("unexpected call counts: resolve=%d state=%d", m.ResolveCalls.Load(), m.StateCalls.Load())
	}
	if err := m.Close(); err != nil || !m.Closed.Load() {
		t.Fatal("Close should mark the mock closed")
	}
}

func TestSampleProject(t *testing.T) {
	p := sotest.SampleProject()
	if _, ok := p.Worker(sotest.SampleAccount(0x01)); !ok {
		t.Error("leader should be found as worker")
	}
	if _, ok := p.Worker(sotest.SampleAccount(0x02)); !ok {
		t.Error("worker should be found")
	}
	if !p.HasOpenPosition(sotest.SampleCID("gardener")) {
		t.Error("expected open gardener position")
	}
	if ok, err := p.Proposal.Proposal.Matches([]byte("build a community garden")); err != nil || !ok {
		t.Errorf("proposal cid does not match content: %v, %v", ok, err)
	}
}
