// Package store persists the kartei as a flat CSV file. Every read loads the
// whole file and every mutation rewrites it in full; there is no partial
// update and no cross-writer guarantee.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	contractx "github.com/medkartei/medkartei/agent/contract"
)

var header = []string{"name", "specialty", "city", "phone", "website", "source"}

type CSVStore struct {
	path string
}

// NewCSVStore opens (or creates, header only) the kartei file at path.
func NewCSVStore(path string) (*CSVStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: kartei path is empty", contractx.ErrStorage)
	}

	s := &CSVStore{path: path}

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: stat %s: %v", contractx.ErrStorage, path, err)
		}
		if err := s.writeAll(nil); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Find returns every contact matching both filters, case-insensitive
// substring. Empty filters match everything.
func (s *CSVStore) Find(specialty, city string) ([]contractx.Contact, error) {
	contacts, err := s.readAll()
	if err != nil {
		return nil, err
	}

	specialty = strings.ToLower(strings.TrimSpace(specialty))
	city = strings.ToLower(strings.TrimSpace(city))

	var matched []contractx.Contact
	for _, c := range contacts {
		if specialty != "" && !strings.Contains(strings.ToLower(c.Specialty), specialty) {
			continue
		}
		if city != "" && !strings.Contains(strings.ToLower(c.City), city) {
			continue
		}
		matched = append(matched, c)
	}
	return matched, nil
}

// Add appends one contact and rewrites the file. No uniqueness is enforced;
// deduplication is a caller concern.
func (s *CSVStore) Add(c contractx.Contact) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: contact name is required", contractx.ErrValidation)
	}

	contacts, err := s.readAll()
	if err != nil {
		return err
	}
	return s.writeAll(append(contacts, c))
}

func (s *CSVStore) readAll() ([]contractx.Contact, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", contractx.ErrStorage, s.path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", contractx.ErrStorage, s.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	contacts := make([]contractx.Contact, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(header) {
			return nil, fmt.Errorf("%w: malformed row in %s: %v", contractx.ErrStorage, s.path, row)
		}
		contacts = append(contacts, contractx.Contact{
			Name:      row[0],
			Specialty: row[1],
			City:      row[2],
			Phone:     row[3],
			Website:   row[4],
			Source:    contractx.ContactSource(row[5]),
		})
	}
	return contacts, nil
}

func (s *CSVStore) writeAll(contacts []contractx.Contact) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", contractx.ErrStorage, s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("%w: write header: %v", contractx.ErrStorage, err)
	}
	for _, c := range contacts {
		row := []string{c.Name, c.Specialty, c.City, c.Phone, c.Website, string(c.Source)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%w: write row: %v", contractx.ErrStorage, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", contractx.ErrStorage, s.path, err)
	}
	return nil
}
