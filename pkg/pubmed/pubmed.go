// Package pubmed queries the NCBI Entrez E-utilities for PubMed articles.
// NCBI asks callers to identify themselves with an email address; an API key
// is optional and only raises the request rate limit.
package pubmed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	articleURLFormat = "https://pubmed.ncbi.nlm.nih.gov/%s/"

	maxResponseSizeBytes = 2 << 20
)

type Config struct {
	Email   string        `envconfig:"EMAIL" split_words:"true"`
	APIKey  string        `envconfig:"API_KEY" split_words:"true"`
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://eutils.ncbi.nlm.nih.gov/entrez/eutils"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Article is one PubMed search hit. Abstract is empty when the record
// carries none.
type Article struct {
	PMID     string
	Title    string
	URL      string
	Abstract string
}

type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

type Client struct {
	baseURL    string
	email      string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds an Entrez client. A missing API key is allowed; the
// caller decides whether to warn about the lower rate limits.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid entrez base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL: baseURL,
		email:   strings.TrimSpace(cfg.Email),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// HasAPIKey reports whether requests will carry an NCBI API key.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search queries PubMed for term, relevance-sorted, and resolves titles and
// abstracts via efetch in MEDLINE format. Zero hits return an empty slice
// and no error.
func (c *Client) Search(ctx context.Context, term string, maxResults int) ([]Article, error) {
	if strings.TrimSpace(term) == "" {
		return nil, errors.New("search term is required")
	}
	if maxResults <= 0 {
		maxResults = 1
	}

	params := url.Values{
		"db":     {"pubmed"},
		"term":   {term},
		"retmax": {strconv.Itoa(maxResults)},
		"sort":   {"relevance"},
	}

	var search esearchResponse
	if err := c.get(ctx, "/esearch.fcgi", params, &search); err != nil {
		return nil, err
	}

	ids := search.ESearchResult.IDList
	if len(ids) == 0 {
		return nil, nil
	}
	return c.fetch(ctx, ids)
}

// fetch retrieves article records for ids in MEDLINE text format, the same
// rettype the Entrez efetch endpoint serves for reference managers.
func (c *Client) fetch(ctx context.Context, ids []string) ([]Article, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"rettype": {"medline"},
		"retmode": {"text"},
	}

	raw, err := c.do(ctx, "/efetch.fcgi", params)
	if err != nil {
		return nil, err
	}
	return parseMedline(string(raw)), nil
}

// parseMedline extracts PMID, TI, and AB fields from MEDLINE text. A field
// line is "TAG - value" with the tag padded to four columns; continuation
// lines are indented six spaces; records are separated by blank lines.
// Records without a PMID are skipped.
func parseMedline(text string) []Article {
	var (
		articles              []Article
		pmid, title, abstract string
		lastField             *string
	)

	flush := func() {
		if pmid != "" {
			articles = append(articles, Article{
				PMID:     pmid,
				Title:    title,
				URL:      fmt.Sprintf(articleURLFormat, pmid),
				Abstract: abstract,
			})
		}
		pmid, title, abstract = "", "", ""
		lastField = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "      ") {
			if lastField != nil {
				*lastField += " " + strings.TrimSpace(line)
			}
			continue
		}
		if len(line) < 6 || line[4:6] != "- " {
			lastField = nil
			continue
		}

		tag := strings.TrimSpace(line[:4])
		value := line[6:]
		switch tag {
		case "PMID":
			pmid = strings.TrimSpace(value)
			lastField = nil
		case "TI":
			title = value
			lastField = &title
		case "AB":
			abstract = value
			lastField = &abstract
		default:
			lastField = nil
		}
	}
	flush()

	return articles
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("retmode", "json")
	raw, err := c.do(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode entrez response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.email != "" {
		params.Set("email", c.email)
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build entrez request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute entrez request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read entrez response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("entrez http status=%d body=%s", resp.StatusCode, string(raw))
	}

	return raw, nil
}
