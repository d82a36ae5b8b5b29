package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/circuitfile"
)

var version = "0.3.0"

// builtinName stands for the embedded board wherever a path is expected.
const builtinName = "builtin"

type app struct {
	logLevel string
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:   "circuit",
		Short: "Circuit diagram toolkit",
		Long: brand.Sprint("circuit") + " validates, inspects and renders circuit diagram configs.\n" +
			subtle.Sprint("Configs are JSON, YAML or TOML. Omit the file to use the built-in board."),
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.SetVersionTemplate("circuit {{ .Version }}\n")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		a.validateCmd(),
		a.infoCmd(),
		a.renderCmd(),
		a.dotCmd(),
		a.genCmd(),
		a.convertCmd(),
		a.exploreCmd(),
		a.serveCmd(),
	)
	return root
}

// loadConfig reads the config named by args, or the built-in board.
func (a *app) loadConfig(args []string) (circuit.Config, string, error) {
	if len(args) == 0 || args[0] == builtinName {
		a.logger.Debug("using built-in board")
		return circuitfile.DefaultConfig(), builtinName, nil
	}
	path := args[0]
	a.logger.Debug("loading config", "path", path)
	cfg, err := circuitfile.LoadConfig(path)
	if err != nil {
		return circuit.Config{}, path, err
	}
	return cfg, path, nil
}

// loadDiagram reads and builds the config named by args.
func (a *app) loadDiagram(args []string) (*circuit.Diagram, string, error) {
	cfg, name, err := a.loadConfig(args)
	if err != nil {
		return nil, name, err
	}
	d, err := circuit.Build(cfg)
	if err != nil {
		return nil, name, fmt.Errorf("%s: %w", name, err)
	}
	return d, name, nil
}

// writeOutput writes data to path, or to the command's stdout when path
// is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Written: %s\n", path)
	return nil
}

// swapExt replaces the extension of path.
func swapExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
