// Package main provides the entry point for the traypulse system tray
// monitor: a tray icon with live CPU, memory and disk bars plus an
// optional detailed metrics window.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/traypulse/pkg/traypulse"
)

// Version is the current version of traypulse.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

// BuildDate can be injected at build time alongside Version.
var BuildDate = "unknown"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("traypulse", flag.ContinueOnError)
	fs.SetOutput(stderr)

	trayOnly := fs.Bool("tray-only", false, "Run only the tray icon, without the profile window")
	profileOnly := fs.Bool("profile-only", false, "Open the profile window immediately, without a tray icon")
	version := fs.Bool("version", false, "Print version and exit")
	debug := fs.Bool("debug", false, "Enable debug logging and lifecycle event output")
	jsonLog := fs.Bool("json-log", false, "Emit logs as JSON")
	trayInterval := fs.Duration("tray-interval", 0, "Tray icon refresh interval (default 1s)")
	profileInterval := fs.Duration("profile-interval", 0, "Profile window initial refresh interval (default 1s)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *version {
		fmt.Fprintf(stdout, "traypulse v%s (built %s)\n", Version, BuildDate)
		return 0
	}

	if *trayOnly && *profileOnly {
		fmt.Fprintln(stderr, "Error: --tray-only and --profile-only are mutually exclusive")
		return 1
	}

	mode := traypulse.ModeFull
	switch {
	case *trayOnly:
		mode = traypulse.ModeTrayOnly
	case *profileOnly:
		mode = traypulse.ModeProfileOnly
	}

	opts := traypulse.DefaultOptions()
	opts.Mode = mode
	opts.Version = Version
	opts.Logger = buildLogger(*debug, *jsonLog)
	opts.TrayRefreshInterval = *trayInterval
	opts.ProfileRefreshInterval = *profileInterval

	app, err := traypulse.New(&opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	app.SetErrorHandler(func(err error) {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	})
	if *debug {
		app.SetEventHandler(func(e traypulse.Event) {
			fmt.Fprintf(stdout, "[%s] %s: %s\n", e.Timestamp.Format("15:04:05"), e.Type, e.Message)
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// buildLogger selects the log format and level from the flags.
func buildLogger(debug, jsonLog bool) traypulse.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if jsonLog {
		return traypulse.JSONLogger(os.Stderr, level)
	}
	if debug {
		return traypulse.DebugLogger()
	}
	return traypulse.DefaultLogger()
}
