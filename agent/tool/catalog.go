// Package tool defines the closed set of capabilities the model may invoke
// and executes parsed invocations against the store and providers.
package tool

import (
	"github.com/openai/openai-go"
)

const (
	ToolFindContacts     = "contacts.find"
	ToolStoreContact     = "contacts.add"
	ToolSearchLeads      = "leads.search"
	ToolSearchLiterature = "literature.search"
	ToolComposeOutreach  = "outreach.compose"
)

// Infos returns the function schemas advertised to the model. The set is
// closed: anything the model requests outside of it fails to parse.
func Infos() []openai.ChatCompletionToolParam {
	return []openai.ChatCompletionToolParam{
		{
			Function: openai.FunctionDefinitionParam{
				Name:        ToolFindContacts,
				Description: openai.String("Look up HCP contacts already in the kartei. Both filters are optional substrings."),
				Parameters: openai.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"specialty": map[string]any{"type": "string", "description": "Medical specialty filter, e.g. cardiology"},
						"city":      map[string]any{"type": "string", "description": "City filter, e.g. Hamburg"},
					},
				},
			},
		},
		{
			Function: openai.FunctionDefinitionParam{
				Name:        ToolStoreContact,
				Description: openai.String("Add one HCP contact to the kartei."),
				Parameters: openai.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"name":      map[string]any{"type": "string"},
						"specialty": map[string]any{"type": "string"},
						"city":      map[string]any{"type": "string"},
						"phone":     map[string]any{"type": "string"},
						"website":   map[string]any{"type": "string"},
					},
					"required": []string{"name", "specialty", "city"},
				},
			},
		},
		{
			Function: openai.FunctionDefinitionParam{
				Name:        ToolSearchLeads,
				Description: openai.String("Discover new HCP leads via maps search, e.g. cardiologists in Hamburg. Results are not stored automatically."),
				Parameters: openai.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"category": map[string]any{"type": "string", "description": "Professional category to search for"},
						"place":    map[string]any{"type": "string", "description": "City or area to search in"},
					},
					"required": []string{"category", "place"},
				},
			},
		},
		{
			Function: openai.FunctionDefinitionParam{
				Name:        ToolSearchLiterature,
				Description: openai.String("Search recent medical literature by keywords and return a few relevant citations."),
				Parameters: openai.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"keywords":    map[string]any{"type": "string"},
						"max_results": map[string]any{"type": "integer", "description": "At most this many citations, default 3"},
					},
					"required": []string{"keywords"},
				},
			},
		},
		{
			Function: openai.FunctionDefinitionParam{
				Name:        ToolComposeOutreach,
				Description: openai.String("Compose a personalized outreach message for a contact in the kartei, citing recent literature when available."),
				Parameters: openai.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{"type": "string", "description": "Contact name as stored in the kartei"},
						"city": map[string]any{"type": "string", "description": "Disambiguates contacts sharing a name"},
					},
					"required": []string{"name"},
				},
			},
		},
	}
}
