package contract

import (
	"context"

	"github.com/openai/openai-go"
)

// ContactStore is the kartei persistence seam. Implementations read and
// rewrite the backing file in full on every call.
type ContactStore interface {
	Find(specialty, city string) ([]Contact, error)
	Add(Contact) error
}

// LeadFinder discovers new HCP contacts via the maps provider.
type LeadFinder interface {
	Search(ctx context.Context, category, place string) ([]Contact, error)
}

// LiteratureSearcher returns provider-ranked citations for a keyword query.
// A provider failure yields an empty slice, not an error.
type LiteratureSearcher interface {
	Search(ctx context.Context, keywords string, maxResults int) ([]Citation, error)
}

// ToolGateway executes one parsed tool request synchronously.
type ToolGateway interface {
	Execute(ctx context.Context, req ToolRequest) (ToolResult, error)
}

// ChatModel is the language-model boundary: one completion over the full
// conversation history with the closed tool set attached.
type ChatModel interface {
	Complete(
		ctx context.Context,
		messages []openai.ChatCompletionMessageParamUnion,
		tools []openai.ChatCompletionToolParam,
	) (*openai.ChatCompletionMessage, error)
}
