package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/vishnuprakaz/sales-assist/pkg/logger"
)

// Options configures a Server.
type Options struct {
	Script Script
	// Delay is slept between frames.
	Delay time.Duration
}

// Server imitates an agent server: it accepts sessions and answers every
// run with the same scripted event stream.
type Server struct {
	opts   Options
	router *mux.Router

	mu       sync.Mutex
	sessions map[string]bool
	runs     []RunRecord
}

// RunRecord is what the server saw in one run request.
type RunRecord struct {
	SessionID string
	Text      string
	Files     []string
}

type runRequest struct {
	AppName    string `json:"appName"`
	UserID     string `json:"userId"`
	SessionID  string `json:"sessionId"`
	NewMessage struct {
		Role  string `json:"role"`
		Parts []struct {
			Text       string `json:"text"`
			InlineData *struct {
				DisplayName string `json:"displayName"`
				MIMEType    string `json:"mimeType"`
			} `json:"inlineData"`
		} `json:"parts"`
	} `json:"newMessage"`
}

func New(opts Options) *Server {
	if len(opts.Script.Frames) == 0 {
		opts.Script = DefaultScript()
	}
	s := &Server{
		opts:     opts,
		sessions: make(map[string]bool),
	}

	router := mux.NewRouter()
	router.HandleFunc("/apps/{app}/users/{user}/sessions/{session}", s.createSessionHandler).Methods("POST")
	router.HandleFunc("/run_sse", s.runHandler).Methods("POST")
	s.router = router
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Runs returns every run request received so far.
func (s *Server) Runs() []RunRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RunRecord(nil), s.runs...)
}

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	s.mu.Lock()
	s.sessions[vars["session"]] = true
	s.mu.Unlock()

	logger.Info("mock: session %s for %s/%s", vars["session"], vars["app"], vars["user"])
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      vars["session"],
		"appName": vars["app"],
		"userId":  vars["user"],
		"state":   map[string]any{},
		"events":  []any{},
	})
}

func (s *Server) runHandler(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid run request: " + err.Error()})
		return
	}

	s.mu.Lock()
	known := s.sessions[req.SessionID]
	s.mu.Unlock()
	if !known {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	rec := RunRecord{SessionID: req.SessionID}
	for _, part := range req.NewMessage.Parts {
		if part.InlineData != nil {
			rec.Files = append(rec.Files, part.InlineData.DisplayName)
			continue
		}
		rec.Text += part.Text
	}
	s.mu.Lock()
	s.runs = append(s.runs, rec)
	s.mu.Unlock()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for i, frame := range s.opts.Script.Frames {
		if i > 0 && s.opts.Delay > 0 {
			select {
			case <-r.Context().Done():
				logger.Debug("mock: client went away after %d frames", i)
				return
			case <-time.After(s.opts.Delay):
			}
		}
		if _, err := fmt.Fprint(w, frame.Encode()); err != nil {
			logger.Warn("mock: write frame: %v", err)
			return
		}
		flusher.Flush()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("mock: encode response: %v", err)
	}
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("mock: agent server listening on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
