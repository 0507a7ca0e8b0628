// internal/web/server.go
// Package web exposes the council over an HTTP JSON API with Server-Sent
// Event streaming for stage-by-stage progress.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mwiater/synod/internal/council"
	"github.com/mwiater/synod/internal/logging"
	"github.com/mwiater/synod/internal/storage"
)

// serviceName identifies the API in the health check payload.
const serviceName = "synod"

// Council is the deliberation surface the API depends on. The engine in
// internal/council satisfies it; tests substitute a scripted fake.
type Council interface {
	Run(ctx context.Context, query string) council.RunResult
	RunStream(ctx context.Context, query string, emit council.EmitFunc) council.RunResult
	GenerateTitle(ctx context.Context, query string) string
}

// Server routes API requests to the conversation store and the council.
type Server struct {
	store   *storage.Store
	council Council
	origins []string
	mux     *http.ServeMux
}

// NewServer wires the API routes against the given store and council.
func NewServer(store *storage.Store, c Council, origins []string) *Server {
	s := &Server{
		store:   store,
		council: c,
		origins: origins,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("/", s.handleHealth)
	s.mux.HandleFunc("/api/conversations", s.handleConversations)
	s.mux.HandleFunc("/api/conversations/", s.handleConversation)
	return s
}

// Handler returns the API with middleware applied.
func (s *Server) Handler() http.Handler {
	return loggingMiddleware(corsMiddleware(s.origins, s.mux))
}

// handleHealth handles GET /.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		jsonError(w, "Not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonResponse(w, map[string]string{"status": "ok", "service": serviceName})
}

// handleConversations handles GET and POST /api/conversations.
func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		summaries, err := s.store.List()
		if err != nil {
			jsonError(w, "Failed to list conversations", http.StatusInternalServerError)
			return
		}
		jsonResponse(w, summaries)
	case http.MethodPost:
		conv, err := s.store.Create(uuid.NewString())
		if err != nil {
			jsonError(w, "Failed to create conversation", http.StatusInternalServerError)
			return
		}
		jsonResponse(w, conv)
	default:
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleConversation dispatches /api/conversations/{id} and the message
// endpoints beneath it.
func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/conversations/")
	parts := strings.Split(rest, "/")
	if parts[0] == "" {
		jsonError(w, "Conversation ID required", http.StatusBadRequest)
		return
	}
	id := parts[0]

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.getConversation(w, id)
	case len(parts) == 2 && parts[1] == "message":
		if r.Method != http.MethodPost {
			jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.sendMessage(w, r, id)
	case len(parts) == 3 && parts[1] == "message" && parts[2] == "stream":
		if r.Method != http.MethodPost {
			jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.sendMessageStream(w, r, id)
	default:
		jsonError(w, "Not found", http.StatusNotFound)
	}
}

// getConversation handles GET /api/conversations/{id}.
func (s *Server) getConversation(w http.ResponseWriter, id string) {
	conv, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		jsonError(w, "Failed to read conversation", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, conv)
}

// messageRequest is the body of the message endpoints.
type messageRequest struct {
	Content string `json:"content"`
}

// readMessage decodes and validates the request body for the message
// endpoints. A nil return means the error response was already written.
func readMessage(w http.ResponseWriter, r *http.Request) *messageRequest {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return nil
	}
	if strings.TrimSpace(req.Content) == "" {
		jsonError(w, "Field 'content' is required", http.StatusBadRequest)
		return nil
	}
	return &req
}

// sendMessage handles POST /api/conversations/{id}/message. It runs the full
// council synchronously and returns every stage in one payload.
func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request, id string) {
	conv, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		jsonError(w, "Failed to read conversation", http.StatusInternalServerError)
		return
	}

	req := readMessage(w, r)
	if req == nil {
		return
	}

	isFirstMessage := len(conv.Messages) == 0
	if err := s.store.AddUserMessage(id, req.Content); err != nil {
		jsonError(w, "Failed to save message", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	result := s.council.Run(ctx, req.Content)

	if isFirstMessage {
		title := s.council.GenerateTitle(ctx, req.Content)
		if err := s.store.UpdateTitle(id, title); err != nil {
			logging.LogEvent("[WEB] failed to update title for %s: %v", id, err)
		}
	}

	if err := s.store.AddAssistantMessage(id, result.Stage1, result.Stage2, result.Stage3, result.Metadata); err != nil {
		jsonError(w, "Failed to save response", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, result)
}

// sendMessageStream handles POST /api/conversations/{id}/message/stream. The
// council's progress events are relayed as Server-Sent Events as each stage
// finishes; the conversation is persisted once the run completes.
func (s *Server) sendMessageStream(w http.ResponseWriter, r *http.Request, id string) {
	conv, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		jsonError(w, "Failed to read conversation", http.StatusInternalServerError)
		return
	}

	req := readMessage(w, r)
	if req == nil {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	isFirstMessage := len(conv.Messages) == 0
	if err := s.store.AddUserMessage(id, req.Content); err != nil {
		jsonError(w, "Failed to save message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	result := s.council.RunStream(ctx, req.Content, func(ev council.Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			logging.LogEvent("[WEB] failed to encode event %q: %v", ev.Type, err)
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	})

	if isFirstMessage {
		title := s.council.GenerateTitle(ctx, req.Content)
		if err := s.store.UpdateTitle(id, title); err != nil {
			logging.LogEvent("[WEB] failed to update title for %s: %v", id, err)
		}
	}

	if err := s.store.AddAssistantMessage(id, result.Stage1, result.Stage2, result.Stage3, result.Metadata); err != nil {
		logging.LogEvent("[WEB] failed to save response for %s: %v", id, err)
	}
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.LogEvent("[WEB] json encode error: %v", err)
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
