package contract

import "encoding/json"

// ContactSource records how a contact entered the kartei.
type ContactSource string

const (
	SourceSeeded     ContactSource = "seeded"
	SourceDiscovered ContactSource = "discovered"
)

// Contact is one HCP record in the kartei. Identity is name+city; the store
// itself does not enforce uniqueness.
type Contact struct {
	Name      string        `json:"name"`
	Specialty string        `json:"specialty"`
	City      string        `json:"city"`
	Phone     string        `json:"phone"`
	Website   string        `json:"website,omitempty"`
	Source    ContactSource `json:"source"`
}

// Citation is a literature reference fetched per request, never stored.
type Citation struct {
	PMID     string `json:"pmid,omitempty"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Abstract string `json:"abstract,omitempty"`
}

// ToolRequest carries one tool selection from the model, arguments still raw.
type ToolRequest struct {
	Tool string          `json:"tool"`
	Args json.RawMessage `json:"args,omitempty"`
}

// ToolResult is the outcome of one tool execution. Error carries
// user-recoverable failures in-band so the model can react to them;
// hard failures are returned as Go errors instead.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
