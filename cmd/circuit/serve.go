package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/circuitfile"
	"github.com/ha1tch/circuit-toolkit/pkg/telemetry"
)

// Frame size limits for /frame requests.
const (
	maxFrameSide = 4096
	minFrameSide = 16
)

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve [config]",
		Short: "Serve rendered frames and metrics over HTTP",
		Long: "Serve still frames of the circuit over HTTP.\n\n" +
			"  GET /frame.svg, /frame.png   ?pipeline=ID&t=SECONDS&x=PX&y=PX&w=PX&h=PX\n" +
			"  GET /metrics                 Prometheus metrics\n" +
			"  GET /healthz                 liveness",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, name, err := a.loadConfig(args)
			if err != nil {
				return err
			}
			if _, err := circuit.Build(cfg); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           newFrameServer(cfg, telemetry.New(), a.logger),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("serving", "addr", addr, "config", name)
				fmt.Fprintf(cmd.ErrOrStderr(), "%s listening on %s\n", brand.Sprint("circuit"), addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				a.logger.Error("shutdown error", "error", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", envOr("CIRCUIT_ADDR", ":8080"), "Listen address")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// frameServer renders a fresh diagram per request, so concurrent requests
// never share hover or layout state.
type frameServer struct {
	cfg     circuit.Config
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

func newFrameServer(cfg circuit.Config, m *telemetry.Metrics, logger *slog.Logger) http.Handler {
	s := &frameServer{cfg: cfg, metrics: m, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /frame.svg", s.frame("svg"))
	mux.HandleFunc("GET /frame.png", s.frame("png"))
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	return mux
}

func (s *frameServer) frame(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		status := "ok"
		defer func() { s.metrics.RecordRender(format, status, time.Since(start)) }()

		opts, err := frameOptions(r)
		if err != nil {
			status = "bad_request"
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		opts.Logger = s.logger

		d, err := circuit.Build(s.cfg)
		if err != nil {
			status = "error"
			s.logger.Error("build failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		var buf bytes.Buffer
		var stats circuit.FrameStats
		if format == "png" {
			stats, err = circuitfile.RenderPNG(&buf, d, opts)
			w.Header().Set("Content-Type", "image/png")
		} else {
			stats, err = circuitfile.RenderSVG(&buf, d, opts)
			w.Header().Set("Content-Type", "image/svg+xml")
		}
		if err != nil {
			status = "bad_request"
			w.Header().Del("Content-Type")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Debug("frame served",
			"format", format, "pipeline", opts.Pipeline, "packets", stats.Packets, "took", time.Since(start))
		w.Header().Set("Cache-Control", "no-store")
		w.Write(buf.Bytes())
	}
}

// frameOptions reads render options from the query string.
func frameOptions(r *http.Request) (circuitfile.RenderOptions, error) {
	opts := circuitfile.DefaultRenderOptions()
	q := r.URL.Query()

	opts.Pipeline = q.Get("pipeline")
	if v := q.Get("t"); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil || secs < 0 {
			return opts, fmt.Errorf("t: want non-negative seconds, got %q", v)
		}
		opts.Elapsed = time.Duration(secs * float64(time.Second))
	}
	for _, dim := range []struct {
		key string
		dst *int
	}{{"w", &opts.Width}, {"h", &opts.Height}} {
		v := q.Get(dim.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < minFrameSide || n > maxFrameSide {
			return opts, fmt.Errorf("%s: want %d..%d, got %q", dim.key, minFrameSide, maxFrameSide, v)
		}
		*dim.dst = n
	}
	if xs, ys := q.Get("x"), q.Get("y"); xs != "" || ys != "" {
		x, errX := strconv.ParseFloat(xs, 64)
		y, errY := strconv.ParseFloat(ys, 64)
		if errX != nil || errY != nil {
			return opts, fmt.Errorf("x, y: want a pixel position, got %q,%q", xs, ys)
		}
		opts.Hover = &circuit.Point{X: x, Y: y}
	}
	if q.Get("grid") == "0" {
		opts.Grid = false
	}
	return opts, nil
}
