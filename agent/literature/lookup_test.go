package literature

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/medkartei/medkartei/agent/contract"
	"github.com/medkartei/medkartei/pkg/pubmed"
)

type fakeArticles struct {
	articles []pubmed.Article
	err      error
	gotMax   int
}

func (f *fakeArticles) Search(ctx context.Context, term string, maxResults int) ([]pubmed.Article, error) {
	f.gotMax = maxResults
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

func manyArticles(n int) []pubmed.Article {
	out := make([]pubmed.Article, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, pubmed.Article{PMID: "1", Title: "T", URL: "https://pubmed.ncbi.nlm.nih.gov/1/"})
	}
	return out
}

func TestSearchTruncatesToMaxResults(t *testing.T) {
	t.Parallel()

	lookup, err := NewLookup(&fakeArticles{articles: manyArticles(7)})
	if err != nil {
		t.Fatalf("NewLookup() error = %v", err)
	}

	citations, err := lookup.Search(context.Background(), "cardiology guidelines", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(citations) != 3 {
		t.Fatalf("got %d citations, want 3", len(citations))
	}
}

func TestSearchCarriesAbstracts(t *testing.T) {
	t.Parallel()

	fake := &fakeArticles{articles: []pubmed.Article{{
		PMID:     "111",
		Title:    "Cardiology guidelines 2024",
		URL:      "https://pubmed.ncbi.nlm.nih.gov/111/",
		Abstract: "Updated recommendations for chronic coronary syndromes.",
	}}}
	lookup, _ := NewLookup(fake)

	citations, err := lookup.Search(context.Background(), "cardiology guidelines", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(citations))
	}
	if citations[0].Abstract != fake.articles[0].Abstract {
		t.Fatalf("abstract not carried through: %#v", citations[0])
	}
}

func TestSearchDefaultsMaxResults(t *testing.T) {
	t.Parallel()

	fake := &fakeArticles{}
	lookup, _ := NewLookup(fake)

	if _, err := lookup.Search(context.Background(), "oncology", 0); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if fake.gotMax != DefaultMaxResults {
		t.Fatalf("provider max = %d, want %d", fake.gotMax, DefaultMaxResults)
	}
}

func TestSearchProviderErrorDegradesToEmpty(t *testing.T) {
	t.Parallel()

	lookup, _ := NewLookup(&fakeArticles{err: errors.New("entrez http status=429")})

	citations, err := lookup.Search(context.Background(), "cardiology", 3)
	if err != nil {
		t.Fatalf("Search() error = %v, want nil (degrade)", err)
	}
	if len(citations) != 0 {
		t.Fatalf("got %d citations, want 0", len(citations))
	}
}

func TestSearchRequiresKeywords(t *testing.T) {
	t.Parallel()

	lookup, _ := NewLookup(&fakeArticles{})

	_, err := lookup.Search(context.Background(), "", 3)
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Search() error = %v, want ErrValidation", err)
	}
}
