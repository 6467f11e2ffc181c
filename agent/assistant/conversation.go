package assistant

import (
	"sync"

	"github.com/openai/openai-go"

	promptx "github.com/medkartei/medkartei/agent/prompt"
)

// Conversation holds one chat session's history for the process lifetime.
// Nothing is persisted across restarts. The embedded mutex serializes turns
// so each conversation has at most one request in flight.
type Conversation struct {
	id string

	mu       sync.Mutex
	messages []openai.ChatCompletionMessageParamUnion
}

func NewConversation(id string) *Conversation {
	return &Conversation{
		id: id,
		messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(promptx.Assistant()),
		},
	}
}

func (c *Conversation) ID() string {
	return c.id
}

// Len reports the number of messages in the transcript, system prompt
// included.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}
