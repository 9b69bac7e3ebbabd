package main

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	"github.com/sea212/Masterthesis-Superorganism/config"
	sogrpc "github.com/sea212/Masterthesis-Superorganism/grpc"
	"github.com/sea212/Masterthesis-Superorganism/registry"
	sotest "github.com/sea212/Masterthesis-Superorganism/testing"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

func writeRegistry(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDump_JSONParsesBack(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, dumpFunc(&out, zap.NewNop(), "", config.FormatJSON))
	reg, err := registry.ParseJSON(out.Bytes())
	require.NoError(t, err)
	require.Empty(t, registry.Superorganism().Diff(reg))
}

func TestDump_YAMLParsesBack(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, dumpFunc(&out, zap.NewNop(), "", config.FormatYAML))
	reg, err := registry.ParseYAML(out.Bytes())
	require.NoError(t, err)
	require.Equal(t, registry.Superorganism().Names(), reg.Names())
}

func TestDump_UsesConfig(t *testing.T) {
	regPath := writeRegistry(t, "types.json", `{"Ticket": "u64"}`)
	cfgPath := writeRegistry(t, "sotypes.yaml", "registry_file: "+regPath+"\nformat: yaml\n")
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	path, format := dumpSource(cfg, "", "")
	require.Equal(t, regPath, path)
	require.Equal(t, config.FormatYAML, format)

	var out bytes.Buffer
	require.NoError(t, dumpFunc(&out, zap.NewNop(), path, format))
	reg, err := registry.ParseYAML(out.Bytes())
	require.NoError(t, err)
	require.Equal(t, []string{"Ticket"}, reg.Names())

	// Flags win over the configuration.
	path, format = dumpSource(cfg, "other.json", config.FormatJSON)
	require.Equal(t, "other.json", path)
	require.Equal(t, config.FormatJSON, format)

	path, format = dumpSource(config.Default(), "", "")
	require.Empty(t, path)
	require.Equal(t, config.FormatJSON, format)
}

func TestCheck(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, checkFunc(&out, zap.NewNop(), "", nil))
	require.Equal(t, "ok: 21 definitions\n", out.String())

	path := writeRegistry(t, "types.json", `{"Hash": "H256"}`)
	err := checkFunc(&out, zap.NewNop(), path, nil)
	require.Error(t, err)
	_, ok := registry.IsDefinitionError(err)
	require.True(t, ok)

	out.Reset()
	require.NoError(t, checkFunc(&out, zap.NewNop(), path, []string{"H256"}))
	require.Equal(t, "ok: 1 definitions\n", out.String())
}

func TestDiff(t *testing.T) {
	prev := writeRegistry(t, "old.json", `{"States": {"_enum": ["Uninitialized", "Propose"]}, "Ticket": "u64"}`)
	next := writeRegistry(t, "new.json", `{"States": {"_enum": ["Uninitialized", "Propose", "VotePropose"]}, "Ticket": "u64"}`)

	var out bytes.Buffer
	require.NoError(t, diffFunc(&out, prev, next))
	require.Contains(t, out.String(), "States")

	out.Reset()
	err := diffFunc(&out, next, prev)
	require.ErrorIs(t, err, errBreaking)
	require.True(t, strings.HasPrefix(out.String(), "!"))
}

func TestResolve_UsesService(t *testing.T) {
	mock := &sotest.MockService{}
	var out bytes.Buffer
	require.NoError(t, resolveFunc(context.Background(), &out, mock, "PRJ"))
	require.Equal(t, "PRJ: struct Project\n", out.String())
	require.EqualValues(t, 1, mock.ResolveCalls.Load())

	err := resolveFunc(context.Background(), &out, mock, "Nope")
	require.ErrorIs(t, err, superorganism.ErrUnknownType)
}

func TestServe(t *testing.T) {
	cfg := config.Default()
	cfg.ListenAddr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() { done <- serveFunc(ctx, zap.NewNop(), cfg, ready) }()

	var addr net.Addr
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not start")
	}

	client, err := sogrpc.Dial(ctx, addr.String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer client.Close()

	rep, err := client.Rotate(ctx, types.StatePropose)
	require.NoError(t, err)
	require.Equal(t, types.StatePropose, rep.State)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestServe_InvalidRegistry(t *testing.T) {
	cfg := config.Default()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.RegistryFile = writeRegistry(t, "types.yaml", "Hash: H256\n")

	err := serveFunc(context.Background(), zap.NewNop(), cfg, nil)
	require.Error(t, err)
	require.False(t, errors.Is(err, context.Canceled))
}
