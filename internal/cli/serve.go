package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/promptshield/promptshield/internal/audit"
	"github.com/promptshield/promptshield/internal/config"
	"github.com/promptshield/promptshield/internal/filter"
	"github.com/promptshield/promptshield/internal/metrics"
	"github.com/promptshield/promptshield/internal/packs"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an HTTP service exposing the safety checks",
	Long: `Serve the safety checks over HTTP:

  POST /v1/check     {"text": "...", "direction": "input|output"} -> verdict
  POST /v1/sanitize  {"text": "..."} -> {"sanitized_text": "..."}
  GET  /healthz
  GET  /metrics      prometheus exposition

Pattern packs are hot-reloaded when the packs directory changes.`,
	Args: cobra.NoArgs,
	RunE: serveCommand,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", ":8080", "Listen address")
	rootCmd.AddCommand(serveCmd)
}

// shieldServer holds the HTTP handlers' shared state. The engine pointer is
// swapped atomically when packs reload, so in-flight checks keep the engine
// they started with.
type shieldServer struct {
	cfg      *config.Config
	engine   atomic.Pointer[filter.Engine]
	bundle   *metrics.Bundle
	auditLog *audit.Logger
}

func serveCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, _, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	auditLog, err := openAudit(cfg)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer auditLog.Close()

	registry := prometheus.NewRegistry()
	srv := &shieldServer{
		cfg:      cfg,
		bundle:   metrics.New(registry),
		auditLog: auditLog,
	}
	srv.engine.Store(engine)
	srv.bundle.SetPatternCounts(engine.Stats())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv.watchPacks(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/check", srv.handleCheck)
	mux.HandleFunc("/v1/sanitize", srv.handleSanitize)
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	httpSrv := &http.Server{
		Addr:              serveListen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serve: listening on %s", serveListen)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Printf("serve: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// watchPacks hot-reloads the engine when the packs directory changes. A
// missing directory just disables hot reload; the service still runs with
// whatever patterns were loaded at startup.
func (s *shieldServer) watchPacks(ctx context.Context) {
	watcher, err := packs.NewWatcher(s.cfg.PacksDir)
	if err != nil {
		log.Printf("serve: pack hot-reload disabled: %v", err)
		return
	}
	go func() {
		err := watcher.Watch(ctx, func() error {
			engine, infos, err := buildEngine(s.cfg)
			if err != nil {
				return err
			}
			s.engine.Store(engine)
			s.bundle.SetPatternCounts(engine.Stats())
			log.Printf("serve: reloaded %d pack(s) from %s", len(infos), s.cfg.PacksDir)
			return nil
		})
		if err != nil {
			log.Printf("serve: pack watcher stopped: %v", err)
		}
	}()
}

type checkRequest struct {
	Text      string `json:"text"`
	Direction string `json:"direction"`
}

type sanitizeRequest struct {
	Text string `json:"text"`
}

type sanitizeResponse struct {
	SanitizedText string `json:"sanitized_text"`
}

func (s *shieldServer) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	engine := s.engine.Load()
	var dir filter.Direction
	var verdict filter.Verdict
	switch req.Direction {
	case "", "input":
		dir = filter.DirectionInput
		verdict = engine.CheckInput(req.Text)
	case "output":
		dir = filter.DirectionOutput
		verdict = engine.CheckOutput(req.Text)
	default:
		http.Error(w, fmt.Sprintf("invalid direction %q: must be input or output", req.Direction), http.StatusBadRequest)
		return
	}

	s.bundle.RecordCheck(dir, verdict)
	if err := s.auditLog.Record(dir, req.Text, verdict); err != nil {
		log.Printf("serve: audit write failed: %v", err)
	}

	writeJSON(w, verdict)
}

func (s *shieldServer) handleSanitize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req sanitizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	writeJSON(w, sanitizeResponse{SanitizedText: s.engine.Load().Sanitize(req.Text)})
}

func (s *shieldServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("serve: response write failed: %v", err)
	}
}
