// Package main provides the shipyard CLI for building vendor libraries,
// icons, installers and build-info headers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/schollz/cli/v2"

	"github.com/ochairo/shipyard/internal/domain-adapters/gateways"
	"github.com/ochairo/shipyard/internal/external-adapters/environment"
	"github.com/ochairo/shipyard/internal/external-adapters/logging"
)

// version is overridden at link time with -ldflags "-X main.version=...".
var version = "dev"

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "shipyard"
	app.Usage = "build vendor libraries, icons, installers and build info"
	app.Version = version
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "trace, debug, info, warn or error (default info, or $" + environment.LogLevelVar + ")",
		},
	}
	app.Before = func(c *cli.Context) error {
		_, err := newLogger(c)
		return err
	}
	app.Commands = []*cli.Command{
		iconCommand(),
		vendorCommand(),
		vendorAllCommand(),
		distCommand(),
		tagCommand(),
	}
	return app
}

// newLogger configures the shared logger from --log-level, falling back
// to the environment.
func newLogger(c *cli.Context) (*logging.Logger, error) {
	level := c.String("log-level")
	if level == "" {
		level = environment.New().LogLevel()
	}
	return logging.New(level, os.Stderr)
}

// newToolRunner runs build tools with their output passed through to the
// terminal, so compiler diagnostics stay visible when a step fails.
func newToolRunner() *gateways.ExecRunner {
	return gateways.NewStreamingRunner(os.Stdout, os.Stderr)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
