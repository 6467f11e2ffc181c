package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/openai/openai-go"

	contractx "github.com/medkartei/medkartei/agent/contract"
	toolx "github.com/medkartei/medkartei/agent/tool"
)

type fakeModel struct {
	responses []*openai.ChatCompletionMessage
	err       error
	idx       int
}

func (f *fakeModel) Complete(
	ctx context.Context,
	messages []openai.ChatCompletionMessageParamUnion,
	tools []openai.ChatCompletionToolParam,
) (*openai.ChatCompletionMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

type fakeGateway struct {
	results  map[string]contractx.ToolResult
	err      error
	requests []contractx.ToolRequest
}

func (f *fakeGateway) Execute(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return contractx.ToolResult{}, f.err
	}
	if res, ok := f.results[req.Tool]; ok {
		return res, nil
	}
	return contractx.ToolResult{Tool: req.Tool}, nil
}

func toolCallMessage(id, name, args string) *openai.ChatCompletionMessage {
	return &openai.ChatCompletionMessage{
		ToolCalls: []openai.ChatCompletionMessageToolCall{
			{
				ID: id,
				Function: openai.ChatCompletionMessageToolCallFunction{
					Name:      name,
					Arguments: args,
				},
			},
		},
	}
}

func TestHandleMessageDirectReply(t *testing.T) {
	t.Parallel()

	model := &fakeModel{responses: []*openai.ChatCompletionMessage{{Content: "Hello! How can I help?"}}}
	a, err := New(model, &fakeGateway{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conv := NewConversation("s1")
	reply, err := a.HandleMessage(context.Background(), conv, "hi")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != "Hello! How can I help?" {
		t.Fatalf("reply = %q", reply)
	}
	// system + user + assistant
	if conv.Len() != 3 {
		t.Fatalf("transcript length = %d, want 3", conv.Len())
	}
}

func TestHandleMessageLeadSearchScenario(t *testing.T) {
	t.Parallel()

	leadContacts := []contractx.Contact{
		{Name: "Praxis Eins", Specialty: "cardiologists", City: "Hamburg", Phone: "+49 40 1", Website: "N/A", Source: contractx.SourceDiscovered},
		{Name: "Praxis Zwei", Specialty: "cardiologists", City: "Hamburg", Phone: "N/A", Website: "N/A", Source: contractx.SourceDiscovered},
		{Name: "Praxis Drei", Specialty: "cardiologists", City: "Hamburg", Phone: "+49 40 3", Website: "N/A", Source: contractx.SourceDiscovered},
	}

	model := &fakeModel{responses: []*openai.ChatCompletionMessage{
		toolCallMessage("call_1", toolx.ToolSearchLeads, `{"category":"cardiologists","place":"Hamburg"}`),
		{Content: "I found 3 cardiologists in Hamburg."},
	}}
	gateway := &fakeGateway{results: map[string]contractx.ToolResult{
		toolx.ToolSearchLeads: {Tool: toolx.ToolSearchLeads, Result: leadContacts},
	}}

	a, _ := New(model, gateway)
	conv := NewConversation("s1")

	reply, err := a.HandleMessage(context.Background(), conv, "find cardiologists in Hamburg")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != "I found 3 cardiologists in Hamburg." {
		t.Fatalf("reply = %q", reply)
	}

	if len(gateway.requests) != 1 {
		t.Fatalf("gateway saw %d requests, want 1", len(gateway.requests))
	}
	var args struct {
		Category string `json:"category"`
		Place    string `json:"place"`
	}
	if err := json.Unmarshal(gateway.requests[0].Args, &args); err != nil {
		t.Fatalf("unmarshal forwarded args: %v", err)
	}
	if args.Category != "cardiologists" || args.Place != "Hamburg" {
		t.Fatalf("forwarded args = %+v", args)
	}

	res, ok := gateway.results[toolx.ToolSearchLeads]
	if !ok {
		t.Fatal("missing stubbed result")
	}
	contacts := res.Result.([]contractx.Contact)
	if len(contacts) != 3 {
		t.Fatalf("tool output has %d contacts, want 3", len(contacts))
	}
	for _, c := range contacts {
		if c.Specialty != "cardiologists" || c.City != "Hamburg" {
			t.Fatalf("contact not normalized: %#v", c)
		}
	}
}

func TestHandleMessageProviderUnavailableYieldsApology(t *testing.T) {
	t.Parallel()

	model := &fakeModel{responses: []*openai.ChatCompletionMessage{
		toolCallMessage("call_1", toolx.ToolSearchLeads, `{"category":"cardiologists","place":"Hamburg"}`),
		{Content: "Anything else?"},
	}}
	gateway := &fakeGateway{err: fmt.Errorf("%w: maps auth failed", contractx.ErrProviderUnavailable)}

	a, _ := New(model, gateway)
	conv := NewConversation("s1")

	reply, err := a.HandleMessage(context.Background(), conv, "find cardiologists in Hamburg")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v, want apology without error", err)
	}
	if !strings.Contains(reply, "Sorry") {
		t.Fatalf("reply = %q, want apology", reply)
	}

	// The loop survives: a follow-up turn still works.
	gateway.err = nil
	reply, err = a.HandleMessage(context.Background(), conv, "ok, never mind")
	if err != nil {
		t.Fatalf("follow-up HandleMessage() error = %v", err)
	}
	if reply != "Anything else?" {
		t.Fatalf("follow-up reply = %q", reply)
	}
}

func TestHandleMessageToolErrorIsFoldedBack(t *testing.T) {
	t.Parallel()

	model := &fakeModel{responses: []*openai.ChatCompletionMessage{
		toolCallMessage("call_1", toolx.ToolSearchLeads, `{"place":"Hamburg"}`),
		{Content: "Which kind of specialists should I look for?"},
	}}
	gateway := &fakeGateway{results: map[string]contractx.ToolResult{
		toolx.ToolSearchLeads: {Tool: toolx.ToolSearchLeads, Error: "bad tool arguments: tool=leads.search: category is required"},
	}}

	a, _ := New(model, gateway)
	conv := NewConversation("s1")

	reply, err := a.HandleMessage(context.Background(), conv, "find leads in Hamburg")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != "Which kind of specialists should I look for?" {
		t.Fatalf("reply = %q", reply)
	}
}

func TestHandleMessageRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	a, _ := New(&fakeModel{}, &fakeGateway{})

	_, err := a.HandleMessage(context.Background(), NewConversation("s1"), "   ")
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("HandleMessage() error = %v, want ErrValidation", err)
	}
}

func TestHandleMessageBoundsToolRounds(t *testing.T) {
	t.Parallel()

	// Model keeps requesting tools forever.
	responses := make([]*openai.ChatCompletionMessage, 0, maxToolRounds+2)
	for i := 0; i <= maxToolRounds+1; i++ {
		responses = append(responses, toolCallMessage(fmt.Sprintf("call_%d", i), toolx.ToolFindContacts, `{}`))
	}
	model := &fakeModel{responses: responses}

	a, _ := New(model, &fakeGateway{})

	_, err := a.HandleMessage(context.Background(), NewConversation("s1"), "loop forever")
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("HandleMessage() error = %v, want ErrModelInvoke", err)
	}
}
