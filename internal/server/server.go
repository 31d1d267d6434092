// Package server implements the reference chatmate backend: chat,
// per-page PDF summarization and question answering over page text.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/chatmate/internal/models"
)

// Server serves the backend endpoints
type Server struct {
	llm       Completer
	extract   PageExtractor
	logger    *slog.Logger
	maxUpload int64
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithExtractor replaces the PDF page extractor
func WithExtractor(extract PageExtractor) Option {
	return func(s *Server) {
		if extract != nil {
			s.extract = extract
		}
	}
}

// WithMaxUploadBytes caps the accepted /summarize request size
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// New creates a Server answering with llm
func New(llm Completer, opts ...Option) *Server {
	s := &Server{
		llm:       llm,
		extract:   ExtractPDFPages,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxUpload: models.MaxUploadSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed, CORS-enabled handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+models.EndpointChat, s.handleChat)
	mux.HandleFunc("POST "+models.EndpointSummarize, s.handleSummarize)
	mux.HandleFunc("POST "+models.EndpointAskWithContext, s.handleAsk)
	return s.withRequestID(withCORS(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("backend listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("backend shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type requestIDKey struct{}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		s.logger.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path,
			"elapsed", time.Since(start).Round(time.Millisecond))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	reply, err := s.llm.Complete(r.Context(), chatPrompt(message))
	if err != nil {
		s.logger.Error("chat failed", "id", requestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Response: strings.TrimSpace(reply)})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, s.maxUpload)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	reply, err := s.llm.Complete(r.Context(), askPrompt(message, strings.TrimSpace(req.PageText)))
	if err != nil {
		s.logger.Error("ask failed", "id", requestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Response: strings.TrimSpace(reply)})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+1<<20)

	file, header, err := r.FormFile(models.UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	log := s.logger.With("id", requestID(r.Context()), "file", header.Filename)

	pages, err := s.extract(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		log.Error("pdf extraction failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summaries := make(pageSummaries, 0, len(pages))
	for i, text := range pages {
		label := fmt.Sprintf("Page %d", i+1)
		if strings.TrimSpace(text) == "" {
			summaries = append(summaries, models.PageSummary{Label: label, HTML: NoReadableText + PageSeparator})
			continue
		}

		summary, err := s.llm.Complete(r.Context(), summarizePrompt(text))
		if err != nil {
			log.Error("page summary failed", "page", i+1, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		summaries = append(summaries, models.PageSummary{Label: label, HTML: strings.TrimSpace(summary) + PageSeparator})
	}

	log.Info("summarized", "pages", len(summaries))
	writeJSON(w, http.StatusOK, summarizeResponse{Summary: summaries})
}

type summarizeResponse struct {
	Summary pageSummaries `json:"summary"`
}

// pageSummaries encodes as a JSON object whose keys keep page order.
type pageSummaries []models.PageSummary

func (p pageSummaries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, page := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalString(page.Label)
		if err != nil {
			return nil, err
		}
		value, err := marshalString(page.HTML)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}
