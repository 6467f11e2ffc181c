package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/medkartei/medkartei/agent/contract"
	"github.com/medkartei/medkartei/agent/outreach"
)

// outreachQueryFormat is the default literature query used when composing a
// message for a contact.
const outreachQueryFormat = "%s treatment guidelines 2024"

// Gateway executes parsed tool invocations. Recoverable problems (unknown
// tool, bad or missing arguments, storage failures, missing contacts) are
// reported in-band through ToolResult.Error so the model can re-ask the
// user; provider outages are returned as ErrProviderUnavailable and handled
// by the dispatch loop.
type Gateway struct {
	store      contractx.ContactStore
	leads      contractx.LeadFinder
	literature contractx.LiteratureSearcher
}

// NewGateway wires the tool set. leads may be nil when the maps credential
// is absent; the corresponding tool then reports itself unavailable.
func NewGateway(store contractx.ContactStore, leads contractx.LeadFinder, literature contractx.LiteratureSearcher) (*Gateway, error) {
	if store == nil {
		return nil, errors.New("contact store is required")
	}
	if literature == nil {
		return nil, errors.New("literature searcher is required")
	}
	return &Gateway{store: store, leads: leads, literature: literature}, nil
}

func (g *Gateway) Execute(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	inv, err := ParseCall(req)
	if err != nil {
		if errors.Is(err, contractx.ErrUnknownTool) || errors.Is(err, contractx.ErrBadToolArgs) {
			return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}, nil
		}
		return contractx.ToolResult{}, err
	}

	switch args := inv.(type) {
	case FindContactsArgs:
		return g.findContacts(req.Tool, args)
	case StoreContactArgs:
		return g.storeContact(req.Tool, args)
	case SearchLeadsArgs:
		return g.searchLeads(ctx, req.Tool, args)
	case SearchLiteratureArgs:
		return g.searchLiterature(ctx, req.Tool, args)
	case ComposeOutreachArgs:
		return g.composeOutreach(ctx, req.Tool, args)
	default:
		return contractx.ToolResult{}, fmt.Errorf("%w: unhandled invocation %T", contractx.ErrUnknownTool, inv)
	}
}

func (g *Gateway) findContacts(tool string, args FindContactsArgs) (contractx.ToolResult, error) {
	contacts, err := g.store.Find(args.Specialty, args.City)
	if err != nil {
		return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
	}
	return contractx.ToolResult{Tool: tool, Result: contacts}, nil
}

func (g *Gateway) storeContact(tool string, args StoreContactArgs) (contractx.ToolResult, error) {
	existing, err := g.store.Find("", "")
	if err != nil {
		return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, args.Name) && strings.EqualFold(c.City, args.City) {
			return contractx.ToolResult{Tool: tool, Error: fmt.Sprintf("%q in %s is already in the kartei", args.Name, args.City)}, nil
		}
	}

	contact := contractx.Contact{
		Name:      args.Name,
		Specialty: args.Specialty,
		City:      args.City,
		Phone:     orMissing(args.Phone),
		Website:   orMissing(args.Website),
		Source:    contractx.SourceSeeded,
	}
	if err := g.store.Add(contact); err != nil {
		return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
	}
	return contractx.ToolResult{Tool: tool, Result: contact}, nil
}

func (g *Gateway) searchLeads(ctx context.Context, tool string, args SearchLeadsArgs) (contractx.ToolResult, error) {
	if g.leads == nil {
		return contractx.ToolResult{Tool: tool, Error: "lead discovery is not configured (maps credential missing)"}, nil
	}

	contacts, err := g.leads.Search(ctx, args.Category, args.Place)
	if err != nil {
		if errors.Is(err, contractx.ErrProviderUnavailable) {
			return contractx.ToolResult{}, err
		}
		return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
	}
	return contractx.ToolResult{Tool: tool, Result: contacts}, nil
}

func (g *Gateway) searchLiterature(ctx context.Context, tool string, args SearchLiteratureArgs) (contractx.ToolResult, error) {
	citations, err := g.literature.Search(ctx, args.Keywords, args.MaxResults)
	if err != nil {
		return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
	}
	return contractx.ToolResult{Tool: tool, Result: citations}, nil
}

func (g *Gateway) composeOutreach(ctx context.Context, tool string, args ComposeOutreachArgs) (contractx.ToolResult, error) {
	contacts, err := g.store.Find("", args.City)
	if err != nil {
		return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
	}

	contact, ok := matchByName(contacts, args.Name)
	if !ok {
		return contractx.ToolResult{Tool: tool, Error: fmt.Sprintf("no contact named %q in the kartei", args.Name)}, nil
	}

	var citation *contractx.Citation
	citations, err := g.literature.Search(ctx, fmt.Sprintf(outreachQueryFormat, contact.Specialty), 1)
	if err == nil && len(citations) > 0 {
		citation = &citations[0]
	}

	return contractx.ToolResult{Tool: tool, Result: outreach.Compose(contact, citation)}, nil
}

func matchByName(contacts []contractx.Contact, name string) (contractx.Contact, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return c, true
		}
	}
	return contractx.Contact{}, false
}

func orMissing(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}
