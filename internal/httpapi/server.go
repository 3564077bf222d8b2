// Package httpapi serves the local HTTP API: a browser
// UI drives the Detector/Extractor/GlyphBuilder/FontAssembler pipeline
// through one Session via plain JSON request/response bodies, routed with
// the standard library's pattern-based http.ServeMux (no third-party HTTP
// router appears anywhere in the example pack to imitate).
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/uberstorm/hebrewfontmaker/internal/apierr"
	"github.com/uberstorm/hebrewfontmaker/internal/config"
	"github.com/uberstorm/hebrewfontmaker/internal/session"
)

// Server wires one Session to the HTTP API.
type Server struct {
	sess *session.Session
	cfg  config.Config
	log  *slog.Logger
}

// New builds a Server around sess, configured by cfg and logging to log.
func New(sess *session.Session, cfg config.Config, log *slog.Logger) *Server {
	return &Server{sess: sess, cfg: cfg, log: log}
}

// Routes returns the configured ServeMux, ready to pass to http.Serve or
// wrap in further middleware.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /redetect", s.handleRedetect)
	mux.HandleFunc("POST /add-detection", s.handleAddDetection)
	mux.HandleFunc("POST /remove-detection", s.handleRemoveDetection)
	mux.HandleFunc("POST /merge-detections", s.handleMergeDetections)
	mux.HandleFunc("POST /split-detection", s.handleSplitDetection)
	mux.HandleFunc("POST /assign-letters", s.handleAssignLetters)
	mux.HandleFunc("POST /generate-font", s.handleGenerateFont)
	mux.HandleFunc("POST /session-clear", s.handleSessionClear)
	mux.HandleFunc("POST /export-project", s.handleExportProject)
	mux.HandleFunc("POST /import-project", s.handleImportProject)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return s.withLogging(mux)
}

// withLogging logs one line per request: method, path, status, duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*apierr.Error); ok {
		writeJSON(w, apiErr.Kind.Status(), map[string]string{
			"error": apiErr.Error(),
			"kind":  apiErr.Kind.String(),
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return apierr.Wrap(apierr.BadInput, "invalid request body", err)
	}
	return nil
}
