// Package server exposes the assistant through a chat-style web UI: an
// embedded transcript page plus a JSON chat endpoint.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/medkartei/medkartei/agent/assistant"
	contractx "github.com/medkartei/medkartei/agent/contract"
)

//go:embed static/index.html
var staticFS embed.FS

// Agent handles one user turn against a conversation.
type Agent interface {
	HandleMessage(ctx context.Context, conv *assistant.Conversation, text string) (string, error)
}

const defaultSessionID = "default"

type Server struct {
	agent Agent

	mu            sync.Mutex
	conversations map[string]*assistant.Conversation
}

func New(agent Agent) (*Server, error) {
	if agent == nil {
		return nil, errors.New("agent is required")
	}
	return &Server{
		agent:         agent,
		conversations: make(map[string]*assistant.Conversation),
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /chat", s.handleChat)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Error: "invalid request body"})
		return
	}

	conv := s.conversation(req.SessionID)
	reply, err := s.agent.HandleMessage(r.Context(), conv, req.Message)
	if err != nil {
		if errors.Is(err, contractx.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, chatResponse{Error: err.Error()})
			return
		}
		log.Error().Err(err).Str("conversation", conv.ID()).Msg("chat turn failed")
		writeJSON(w, http.StatusBadGateway, chatResponse{Error: "assistant is unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

// conversation returns the session's conversation, creating it on first use.
// Turn ordering within a conversation is enforced by the conversation itself.
func (s *Server) conversation(sessionID string) *assistant.Conversation {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		id = defaultSessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		conv = assistant.NewConversation(id)
		s.conversations[id] = conv
	}
	return conv
}

func writeJSON(w http.ResponseWriter, status int, body chatResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
