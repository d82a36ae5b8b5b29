// Command circuitview shows an animated circuit diagram in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/circuitfile"
	"github.com/ha1tch/circuit-toolkit/pkg/telemetry"
)

var version = "0.3.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "circuitview: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	settingsPath string
	metricsAddr  string
	logFile      string
	logLevel     string
	pipeline     string
	noWatch      bool
}

func newRootCmd() *cobra.Command {
	o := options{settingsPath: SettingsPath()}
	cmd := &cobra.Command{
		Use:           "circuitview [config]",
		Short:         "Show an animated circuit diagram in the terminal",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o, args)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.settingsPath, "settings", o.settingsPath, "Settings file (TOML)")
	f.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	f.StringVar(&o.logFile, "log-file", "", "Write logs to this file")
	f.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.StringVarP(&o.pipeline, "pipeline", "p", "", "Pipeline to highlight at start")
	f.BoolVar(&o.noWatch, "no-watch", false, "Do not reload the config when it changes")
	return cmd
}

func run(ctx context.Context, o options, args []string) error {
	logger, closeLog, err := openLogger(o.logFile, o.logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	settings, err := LoadSettings(o.settingsPath)
	if err != nil {
		return err
	}

	var source string
	var d *circuit.Diagram
	if len(args) == 0 {
		d = circuitfile.DefaultDiagram()
	} else {
		source = args[0]
		if d, err = circuitfile.Load(source); err != nil {
			return err
		}
	}
	if o.pipeline != "" && d.Pipeline(o.pipeline) == nil {
		return fmt.Errorf("unknown pipeline %q", o.pipeline)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var metrics *telemetry.Metrics
	if o.metricsAddr != "" {
		metrics = telemetry.New()
		srv := &http.Server{Addr: o.metricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "error", err)
			}
		}()
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer scancel()
			srv.Shutdown(sctx)
		}()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer func() {
		// Stop the watcher before the screen goes away.
		cancel()
		screen.Fini()
	}()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.Clear()

	v := NewViewer(screen, d, settings, logger, metrics)
	v.source = source
	v.settingsPath = o.settingsPath
	if o.pipeline != "" {
		v.selectPipeline(o.pipeline)
	}
	if source != "" && !o.noWatch {
		if err := v.watch(ctx, source); err != nil {
			logger.Warn("not watching config", "path", source, "error", err)
		}
	}

	logger.Info("viewer started", "config", source, "fps", settings.FPS)
	v.Run()
	return nil
}

// openLogger returns a text logger writing to path, or a discarding one
// when path is empty since the screen owns the terminal.
func openLogger(path, level string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("--log-level: %w", err)
	}
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})), func() { f.Close() }, nil
}
