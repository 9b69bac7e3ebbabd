package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	"github.com/sea212/Masterthesis-Superorganism/config"
	sogrpc "github.com/sea212/Masterthesis-Superorganism/grpc"
	"github.com/sea212/Masterthesis-Superorganism/local"
	"github.com/sea212/Masterthesis-Superorganism/registry"
	"github.com/sea212/Masterthesis-Superorganism/server"
)

var (
	_ Cmd = (*dumpCmd)(nil)
	_ Cmd = (*checkCmd)(nil)
	_ Cmd = (*diffCmd)(nil)
	_ Cmd = (*resolveCmd)(nil)
	_ Cmd = (*serveCmd)(nil)
)

// errBreaking is returned by diff when a change breaks existing
// clients.
var errBreaking = errors.New("breaking changes")

// loadRegistry returns the registry in path, or the built-in one when
// path is empty.
func loadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Superorganism(), nil
	}
	return registry.Load(path)
}

type dumpCmd struct {
	cmd *argparse.Command
	out io.Writer

	config *string
	file   *string
	format *string
}

func (c *dumpCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("dump", "Print the type registry")
	c.config = c.cmd.String("c", "config", &argparse.Options{Help: "YAML configuration supplying registry_file and format"})
	c.file = c.cmd.String("f", "file", &argparse.Options{Help: "Registry file (default: configured or built-in registry)"})
	c.format = c.cmd.Selector("", "format", []string{config.FormatJSON, config.FormatYAML},
		&argparse.Options{Help: "Output format (default: configured format, json)"})
}

func (c *dumpCmd) Run(_ context.Context, log *zap.Logger) error {
	cfg := config.Default()
	if *c.config != "" {
		var err error
		if cfg, err = config.Load(*c.config); err != nil {
			return err
		}
	}
	path, format := dumpSource(cfg, *c.file, *c.format)
	return dumpFunc(c.out, log, path, format)
}

// dumpSource picks the registry file and output format, preferring
// flags over the configuration.
func dumpSource(cfg config.Config, file, format string) (string, string) {
	if file == "" {
		file = cfg.RegistryFile
	}
	if format == "" {
		format = cfg.Format
	}
	return file, format
}

func (c *dumpCmd) Happened() bool {
	return c.cmd.Happened()
}

func dumpFunc(out io.Writer, log *zap.Logger, path, format string) error {
	reg, err := loadRegistry(path)
	if err != nil {
		return err
	}
	var b []byte
	switch format {
	case config.FormatYAML:
		b, err = reg.YAML()
	default:
		b, err = reg.JSON()
	}
	if err != nil {
		return err
	}
	log.Debug("dump", zap.String("format", format), zap.Int("definitions", reg.Len()))
	_, err = out.Write(b)
	return err
}

type checkCmd struct {
	cmd *argparse.Command
	out io.Writer

	file       *string
	primitives *[]string
}

func (c *checkCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("check", "Validate a registry for dangling references and alias cycles")
	c.file = c.cmd.String("f", "file", &argparse.Options{Help: "Registry file (default: built-in registry)"})
	c.primitives = c.cmd.StringList("p", "primitive", &argparse.Options{Help: "Additional primitive type name"})
}

func (c *checkCmd) Run(_ context.Context, log *zap.Logger) error {
	return checkFunc(c.out, log, *c.file, *c.primitives)
}

func (c *checkCmd) Happened() bool {
	return c.cmd.Happened()
}

func checkFunc(out io.Writer, log *zap.Logger, path string, extra []string) error {
	reg, err := loadRegistry(path)
	if err != nil {
		return err
	}
	if err := reg.Validate(registry.DefaultPrimitives().With(extra...)); err != nil {
		log.Debug("registry invalid", zap.String("file", path), zap.Error(err))
		return err
	}
	_, err = fmt.Fprintf(out, "ok: %d definitions\n", reg.Len())
	return err
}

type diffCmd struct {
	cmd *argparse.Command
	out io.Writer

	oldFile *string
	newFile *string
}

func (c *diffCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("diff", "Compare two registries and flag breaking changes")
	c.oldFile = c.cmd.String("", "old", &argparse.Options{Help: "Previous registry file"})
	c.newFile = c.cmd.String("", "new", &argparse.Options{Help: "Next registry file (default: built-in registry)"})
}

func (c *diffCmd) Run(_ context.Context, _ *zap.Logger) error {
	if *c.oldFile == "" {
		return errors.New("diff: --old is required")
	}
	return diffFunc(c.out, *c.oldFile, *c.newFile)
}

func (c *diffCmd) Happened() bool {
	return c.cmd.Happened()
}

func diffFunc(out io.Writer, oldPath, newPath string) error {
	prev, err := registry.Load(oldPath)
	if err != nil {
		return err
	}
	next, err := loadRegistry(newPath)
	if err != nil {
		return err
	}
	breaking := 0
	for _, ch := range prev.Diff(next) {
		mark := " "
		if ch.Breaking {
			mark = "!"
			breaking++
		}
		if _, err := fmt.Fprintf(out, "%s %s\n", mark, ch); err != nil {
			return err
		}
	}
	if breaking > 0 {
		return fmt.Errorf("%w: %d", errBreaking, breaking)
	}
	return nil
}

type resolveCmd struct {
	cmd *argparse.Command
	out io.Writer

	name *string
	addr *string
}

func (c *resolveCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("resolve", "Expand a type name through its alias chain")
	c.name = c.cmd.StringPositional(&argparse.Options{Help: "Type name"})
	c.addr = c.cmd.String("a", "addr", &argparse.Options{Help: "Query a running service instead of the built-in registry"})
}

func (c *resolveCmd) Run(ctx context.Context, log *zap.Logger) error {
	if *c.name == "" {
		return errors.New("resolve: type name is required")
	}
	var (
		conn superorganism.Connection
		err  error
	)
	if *c.addr != "" {
		conn, err = sogrpc.Dial(ctx, *c.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	} else {
		conn, err = local.Default(server.WithLogger(log))
	}
	if err != nil {
		return err
	}
	defer conn.Close()
	return resolveFunc(ctx, c.out, conn, *c.name)
}

func (c *resolveCmd) Happened() bool {
	return c.cmd.Happened()
}

func resolveFunc(ctx context.Context, out io.Writer, svc superorganism.TypeService, name string) error {
	r, err := svc.Resolve(ctx, name)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s: %s %s\n", r.Name, r.Kind, r.Expr)
	return err
}

type serveCmd struct {
	cmd *argparse.Command

	config *string
}

func (c *serveCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("serve", "Serve the registry over gRPC")
	c.config = c.cmd.String("c", "config", &argparse.Options{Help: "YAML configuration file"})
}

func (c *serveCmd) Run(ctx context.Context, _ *zap.Logger) error {
	cfg := config.Default()
	if *c.config != "" {
		var err error
		if cfg, err = config.Load(*c.config); err != nil {
			return err
		}
	}
	log, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	return serveFunc(ctx, log, cfg, nil)
}

func (c *serveCmd) Happened() bool {
	return c.cmd.Happened()
}

// serveFunc serves until ctx is done. If ready is non-nil it receives
// the bound address once the listener is open.
func serveFunc(ctx context.Context, log *zap.Logger, cfg config.Config, ready chan<- net.Addr) error {
	reg, err := loadRegistry(cfg.RegistryFile)
	if err != nil {
		return err
	}
	srv, err := server.New(reg,
		server.WithLogger(log),
		server.WithPrimitives(registry.DefaultPrimitives().With(cfg.ExtraPrimitives...)),
	)
	if err != nil {
		return err
	}

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
	}
	gs := grpc.NewServer(grpc.ChainUnaryInterceptor(sogrpc.LoggingInterceptor(log)))
	sogrpc.NewGRPCServer(srv, log).Register(gs)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return gs.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		stopped := make(chan struct{})
		go func() {
			gs.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(5 * time.Second):
			gs.Stop()
		}
		return nil
	})
	log.Info("serving", zap.Stringer("addr", lis.Addr()))
	if ready != nil {
		ready <- lis.Addr()
	}

	err = g.Wait()
	log.Info("stopped", zap.Error(err))
	return err
}
