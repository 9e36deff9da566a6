// Command localdb inspects and edits the local JSON database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/skillswap/internal/config"
	"github.com/okian/skillswap/internal/dbtool"
	"github.com/okian/skillswap/internal/domain/scoring"
	"github.com/okian/skillswap/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "failed to load config:", err)
		return 1
	}
	if err := logger.Init(logger.WithWriter(stderr), logger.WithLevel("warn")); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	fs := flag.NewFlagSet("localdb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("db", cfg.JSONPath, "path to the JSON database")
	format := fs.String("o", dbtool.FormatJSON, "output format: json or yaml")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: localdb [-db path] [-o json|yaml] <command> [args]")
		fmt.Fprintln(stderr, dbtool.Usage)
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	mode, err := scoring.ParseMode(cfg.ScoringMode)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	tool, err := dbtool.New(ctx, *path, stdout,
		dbtool.WithFormat(*format),
		dbtool.WithScoringMode(mode),
		dbtool.WithAliases(cfg.SkillAliases),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = tool.Close() }()

	if err := tool.Run(ctx, fs.Args()); err != nil {
		fmt.Fprintln(stderr, err)
		if errors.Is(err, dbtool.ErrUsage) || errors.Is(err, dbtool.ErrUnknownCommand) {
			fs.Usage()
			return 2
		}
		return 1
	}
	return 0
}
