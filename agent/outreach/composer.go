// Package outreach renders personalized HCP messages. Composition is pure
// formatting: identical inputs always produce identical text.
package outreach

import (
	"fmt"
	"strings"

	contractx "github.com/medkartei/medkartei/agent/contract"
)

const messageTemplate = "Dear %s,\n\n" +
	"As a specialist in %s based in %s, we believe our latest insights could be highly relevant to your practice.%s\n\n" +
	"Let us know if you’d like to explore further.\n\n" +
	"Best regards,\nYour Outreach Team"

const citationBlockTemplate = "\n\nRecent research you might find valuable:\n\"%s\"\n%s"

// Compose fills the letter template with the contact's details. When a
// citation is supplied its title and URL are appended as a research block;
// with a nil citation the block is omitted entirely.
func Compose(contact contractx.Contact, citation *contractx.Citation) string {
	name := fallback(contact.Name, "Doctor")
	specialty := fallback(contact.Specialty, "your field")
	city := fallback(contact.City, "your area")

	var citationBlock string
	if citation != nil {
		citationBlock = fmt.Sprintf(citationBlockTemplate, citation.Title, citation.URL)
	}

	return fmt.Sprintf(messageTemplate, name, specialty, city, citationBlock)
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
