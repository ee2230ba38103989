// Package main is the entry point for the forge asset build tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/cmd/forge/commands"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/core/domain"
	_ "go.trai.ch/forge/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, err := provider(ctx)
	if err != nil {
		// The logger is not available yet.
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}

	for _, opt := range opts {
		opt(components.App)
	}

	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		// The build summary already lists the failed files.
		if errors.Is(err, domain.ErrBuildExecutionFailed) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
