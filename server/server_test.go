package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medkartei/medkartei/agent/assistant"
	contractx "github.com/medkartei/medkartei/agent/contract"
)

type fakeAgent struct {
	reply string
	err   error
	convs []string
}

func (f *fakeAgent) HandleMessage(ctx context.Context, conv *assistant.Conversation, text string) (string, error) {
	f.convs = append(f.convs, conv.ID())
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func postChat(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestChatReturnsReply(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{reply: "I found 3 cardiologists in Hamburg."}
	s, err := New(agent)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rec := postChat(t, s.Handler(), `{"session_id":"s1","message":"find cardiologists in Hamburg"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp chatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Reply != "I found 3 cardiologists in Hamburg." {
		t.Fatalf("reply = %q", resp.Reply)
	}
}

func TestChatReusesConversationPerSession(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{reply: "ok"}
	s, _ := New(agent)
	handler := s.Handler()

	postChat(t, handler, `{"session_id":"s1","message":"one"}`)
	postChat(t, handler, `{"session_id":"s1","message":"two"}`)
	postChat(t, handler, `{"message":"three"}`)

	if len(agent.convs) != 3 {
		t.Fatalf("agent saw %d turns, want 3", len(agent.convs))
	}
	if agent.convs[0] != "s1" || agent.convs[1] != "s1" {
		t.Fatalf("session ids = %v", agent.convs)
	}
	if agent.convs[2] != defaultSessionID {
		t.Fatalf("missing session id should fall back to %q, got %q", defaultSessionID, agent.convs[2])
	}
}

func TestChatValidationErrorIsBadRequest(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{err: fmt.Errorf("%w: message is required", contractx.ErrValidation)}
	s, _ := New(agent)

	rec := postChat(t, s.Handler(), `{"session_id":"s1","message":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChatAgentFailureIsBadGateway(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{err: fmt.Errorf("%w: boom", contractx.ErrModelInvoke)}
	s, _ := New(agent)

	rec := postChat(t, s.Handler(), `{"session_id":"s1","message":"hi"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestIndexServesChatPage(t *testing.T) {
	t.Parallel()

	s, _ := New(&fakeAgent{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "MedKartei Assistant") {
		t.Fatal("index page missing title")
	}
}
