package tool

import (
	"encoding/json"
	"fmt"
	"strings"

	contractx "github.com/medkartei/medkartei/agent/contract"
)

// Invocation is the closed, typed form of a model tool call. The model's
// free-form JSON is parsed into exactly one of these variants at the
// boundary; the rest of the system never sees untyped arguments.
type Invocation interface {
	isInvocation()
}

type FindContactsArgs struct {
	Specialty string `json:"specialty"`
	City      string `json:"city"`
}

type StoreContactArgs struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	City      string `json:"city"`
	Phone     string `json:"phone"`
	Website   string `json:"website"`
}

type SearchLeadsArgs struct {
	Category string `json:"category"`
	Place    string `json:"place"`
}

type SearchLiteratureArgs struct {
	Keywords   string `json:"keywords"`
	MaxResults int    `json:"max_results"`
}

type ComposeOutreachArgs struct {
	Name string `json:"name"`
	City string `json:"city"`
}

func (FindContactsArgs) isInvocation()     {}
func (StoreContactArgs) isInvocation()     {}
func (SearchLeadsArgs) isInvocation()      {}
func (SearchLiteratureArgs) isInvocation() {}
func (ComposeOutreachArgs) isInvocation()  {}

// ParseCall turns one raw tool request into a typed invocation.
func ParseCall(req contractx.ToolRequest) (Invocation, error) {
	name := strings.TrimSpace(req.Tool)

	switch name {
	case ToolFindContacts:
		var args FindContactsArgs
		if err := decodeArgs(name, req.Args, &args); err != nil {
			return nil, err
		}
		return args, nil

	case ToolStoreContact:
		var args StoreContactArgs
		if err := decodeArgs(name, req.Args, &args); err != nil {
			return nil, err
		}
		if err := requireFields(name, field{"name", args.Name}, field{"specialty", args.Specialty}, field{"city", args.City}); err != nil {
			return nil, err
		}
		return args, nil

	case ToolSearchLeads:
		var args SearchLeadsArgs
		if err := decodeArgs(name, req.Args, &args); err != nil {
			return nil, err
		}
		if err := requireFields(name, field{"category", args.Category}, field{"place", args.Place}); err != nil {
			return nil, err
		}
		return args, nil

	case ToolSearchLiterature:
		var args SearchLiteratureArgs
		if err := decodeArgs(name, req.Args, &args); err != nil {
			return nil, err
		}
		if err := requireFields(name, field{"keywords", args.Keywords}); err != nil {
			return nil, err
		}
		return args, nil

	case ToolComposeOutreach:
		var args ComposeOutreachArgs
		if err := decodeArgs(name, req.Args, &args); err != nil {
			return nil, err
		}
		if err := requireFields(name, field{"name", args.Name}); err != nil {
			return nil, err
		}
		return args, nil

	default:
		return nil, fmt.Errorf("%w: %q", contractx.ErrUnknownTool, name)
	}
}

func decodeArgs(tool string, raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: tool=%s: %v", contractx.ErrBadToolArgs, tool, err)
	}
	return nil
}

type field struct {
	name  string
	value string
}

func requireFields(tool string, fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: tool=%s: %s is required", contractx.ErrBadToolArgs, tool, f.name)
		}
	}
	return nil
}
