// Command sotypes dumps, checks and serves the superorganism type
// registry.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"
)

// Cmd is one sotypes subcommand.
type Cmd interface {
	New(parser *argparse.Parser)
	Run(ctx context.Context, log *zap.Logger) error
	Happened() bool
}

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	parser := argparse.NewParser("sotypes", "Superorganism chain type registry tool")
	verbose := parser.Flag("v", "verbose", &argparse.Options{Help: "Log at debug level"})

	cmds := []Cmd{
		&dumpCmd{out: os.Stdout},
		&checkCmd{out: os.Stdout},
		&diffCmd{out: os.Stdout},
		&resolveCmd{out: os.Stdout},
		&serveCmd{},
	}
	for _, c := range cmds {
		c.New(parser)
	}
	if err := parser.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		return 2
	}

	zc := zap.NewProductionConfig()
	if *verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := zc.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, c := range cmds {
		if !c.Happened() {
			continue
		}
		if err := c.Run(ctx, log); err != nil {
			fmt.Fprintln(os.Stderr, "sotypes:", err)
			return 1
		}
		return 0
	}
	fmt.Fprint(os.Stderr, parser.Usage(nil))
	return 2
}
