// Package literature looks up citations for outreach content. Provider
// failures degrade to an empty result so message composition can proceed
// without a literature block.
package literature

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/medkartei/medkartei/agent/contract"
	"github.com/medkartei/medkartei/pkg/pubmed"
)

// DefaultMaxResults bounds a lookup when the caller does not say otherwise.
const DefaultMaxResults = 3

// ArticleSearcher is the slice of the pubmed client the lookup needs.
type ArticleSearcher interface {
	Search(ctx context.Context, term string, maxResults int) ([]pubmed.Article, error)
}

type Lookup struct {
	articles ArticleSearcher
}

func NewLookup(articles ArticleSearcher) (*Lookup, error) {
	if articles == nil {
		return nil, errors.New("article searcher is required")
	}
	return &Lookup{articles: articles}, nil
}

// Search returns at most maxResults provider-ranked citations. Each call
// re-queries the provider; nothing is cached. A provider error is logged as
// a warning and yields an empty slice, not an error.
func (l *Lookup) Search(ctx context.Context, keywords string, maxResults int) ([]contractx.Citation, error) {
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return nil, fmt.Errorf("%w: keywords are required", contractx.ErrValidation)
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	articles, err := l.articles.Search(ctx, keywords, maxResults)
	if err != nil {
		log.Warn().Err(err).Str("keywords", keywords).Msg("literature search failed, continuing without citations")
		return nil, nil
	}

	if len(articles) > maxResults {
		articles = articles[:maxResults]
	}

	citations := make([]contractx.Citation, 0, len(articles))
	for _, a := range articles {
		citations = append(citations, contractx.Citation{
			PMID:     a.PMID,
			Title:    a.Title,
			URL:      a.URL,
			Abstract: a.Abstract,
		})
	}
	return citations, nil
}
