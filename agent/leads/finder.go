// Package leads discovers new HCP contacts through the maps provider and
// normalizes them into kartei contact records.
package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/medkartei/medkartei/agent/contract"
	"github.com/medkartei/medkartei/pkg/googlemaps"
)

const missingField = "N/A"

// MapsSearcher is the slice of the maps client the finder needs.
type MapsSearcher interface {
	TextSearch(ctx context.Context, query string) ([]googlemaps.Place, error)
}

type Finder struct {
	maps MapsSearcher
}

func NewFinder(maps MapsSearcher) (*Finder, error) {
	if maps == nil {
		return nil, errors.New("maps searcher is required")
	}
	return &Finder{maps: maps}, nil
}

// Search queries the maps provider with "<category> in <place>" and maps
// every hit onto a Contact. Zero hits return an empty slice and no error;
// transport or auth failures come back wrapped in ErrProviderUnavailable.
// No deduplication against the store happens here.
func (f *Finder) Search(ctx context.Context, category, place string) ([]contractx.Contact, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", contractx.ErrValidation)
	}
	place = strings.TrimSpace(place)

	query := category
	if place != "" {
		query = category + " in " + place
	}

	places, err := f.maps.TextSearch(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: maps search %q: %v", contractx.ErrProviderUnavailable, query, err)
	}

	contacts := make([]contractx.Contact, 0, len(places))
	for _, p := range places {
		contacts = append(contacts, contractx.Contact{
			Name:      p.Name,
			Specialty: category,
			City:      place,
			Phone:     orMissing(p.Phone),
			Website:   orMissing(p.Website),
			Source:    contractx.SourceDiscovered,
		})
	}
	return contacts, nil
}

func orMissing(v string) string {
	if strings.TrimSpace(v) == "" {
		return missingField
	}
	return v
}
