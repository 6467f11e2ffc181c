// Package googlemaps is a minimal client for the Google Places Text Search
// and Place Details endpoints.
package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

	// Detail lookups are one request per place; cap them to keep a single
	// search cheap.
	maxPlacesPerSearch = 5

	maxResponseSizeBytes = 2 << 20
)

type Config struct {
	APIKey  string        `envconfig:"API_KEY" split_words:"true"`
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://maps.googleapis.com/maps/api/place"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Place is one normalized result with the contact fields the outreach flow
// cares about. Phone and Website are empty when the provider has none.
type Place struct {
	Name    string
	Phone   string
	Website string
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
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("google maps api key is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid maps base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
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

type textSearchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID string `json:"place_id"`
		Name    string `json:"name"`
	} `json:"results"`
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Name                 string `json:"name"`
		FormattedPhoneNumber string `json:"formatted_phone_number"`
		Website              string `json:"website"`
	} `json:"result"`
}

// TextSearch runs a Places text search for query and resolves phone and
// website for each hit via the details endpoint. A valid query with zero
// hits returns an empty slice and no error.
func (c *Client) TextSearch(ctx context.Context, query string) ([]Place, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is required")
	}

	var search textSearchResponse
	params := url.Values{"query": {query}}
	if err := c.get(ctx, "/textsearch/json", params, &search); err != nil {
		return nil, err
	}
	if err := checkStatus(search.Status, search.ErrorMessage); err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(search.Results))
	for _, result := range search.Results {
		if len(places) >= maxPlacesPerSearch {
			break
		}

		detail, err := c.details(ctx, result.PlaceID)
		if err != nil {
			return nil, err
		}
		if detail.Name == "" {
			detail.Name = result.Name
		}
		places = append(places, detail)
	}

	return places, nil
}

func (c *Client) details(ctx context.Context, placeID string) (Place, error) {
	params := url.Values{
		"place_id": {placeID},
		"fields":   {"name,formatted_phone_number,website"},
	}

	var detail detailsResponse
	if err := c.get(ctx, "/details/json", params, &detail); err != nil {
		return Place{}, err
	}
	if err := checkStatus(detail.Status, detail.ErrorMessage); err != nil {
		return Place{}, err
	}

	return Place{
		Name:    detail.Result.Name,
		Phone:   detail.Result.FormattedPhoneNumber,
		Website: detail.Result.Website,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build maps request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute maps request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("read maps response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("maps http status=%d body=%s", resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode maps response: %w", err)
	}
	return nil
}

// checkStatus maps the Places API status field onto Go errors. ZERO_RESULTS
// is not an error.
func checkStatus(status, message string) error {
	switch status {
	case "OK", "ZERO_RESULTS":
		return nil
	default:
		if message != "" {
			return fmt.Errorf("maps status=%s: %s", status, message)
		}
		return fmt.Errorf("maps status=%s", status)
	}
}
