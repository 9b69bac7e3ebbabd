package local

import (
	"context"
	"testing"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	"github.com/sea212/Masterthesis-Superorganism/registry"
	sotest "github.com/sea212/Masterthesis-Superorganism/testing"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

func newConn(t *testing.T) *Connection {
	t.Helper()
	conn, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return conn
}

func TestLocalConnection_Compliance(t *testing.T) {
	sotest.RunComplianceSuite(t, func(t *testing.T) superorganism.Connection {
		return newConn(t)
	})
}

func TestLocalConnection_SharesServer(t *testing.T) {
	conn := newConn(t)
	defer conn.Close()

	if _, err := conn.Rotate(context.Background(), types.StatePropose); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	// Rotations through the connection are visible on the server.
	if s := conn.Server().Rounds().Current(); s.State != types.StatePropose {
		t.Fatalf("server state = %s, want Propose", s.State)
	}
	def, ok := conn.Server().Lookup(registry.TypeStates)
	if !ok || len(def.Variants) != types.NumStates {
		t.Fatalf("States definition = %+v, %v", def, ok)
	}
}

func TestLocalConnection_Project(t *testing.T) {
	conn := newConn(t)
	h := sotest.NewHarness(t, conn)

	p := sotest.SampleProject()
	v := h.RoundTrip(&p)
	if v.Project == nil {
		t.Fatal("expected project")
	}
	if v.Project.ProjectLeader == nil || v.Project.ProjectLeader.Worker != sotest.SampleAccount(0x01) {
		t.Fatalf("leader lost in round trip: %+v", v.Project.ProjectLeader)
	}
	if got, _ := v.Project.Workers[0].Salary.Uint64(); got != 1_000_000_000_000 {
		t.Fatalf("salary = %d", got)
	}
	if v.Project.Deadline != 10_000 || v.Project.ID != 7 {
		t.Fatalf("unexpected project %+v", v.Project)
	}
}

func TestLocalConnection_RegistryIsCopied(t *testing.T) {
	conn := newConn(t)
	ctx := context.Background()

	doc, err := conn.Registry(ctx)
	if err != nil {
		t.Fatal(err)
	}
	firstName, firstByte := doc.Names[0], doc.JSON[3]
	doc.Names[0] = "Overwritten"
	doc.JSON[3] = 'X'

	again, err := conn.Registry(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if again.Names[0] != firstName || again.JSON[3] != firstByte {
		t.Fatalf("caller writes leaked into the served document: %q %q", again.Names[0], again.JSON[3])
	}
	if _, err := registry.ParseJSON(again.JSON); err != nil {
		t.Fatalf("served JSON no longer parses: %v", err)
	}
}
