package outreach

import (
	"strings"
	"testing"

	contractx "github.com/medkartei/medkartei/agent/contract"
)

var testContact = contractx.Contact{
	Name:      "Dr. Anna Schmidt",
	Specialty: "cardiology",
	City:      "Hamburg",
}

func TestComposeWithCitation(t *testing.T) {
	t.Parallel()

	citation := &contractx.Citation{
		Title: "Cardiology guidelines 2024",
		URL:   "https://pubmed.ncbi.nlm.nih.gov/111/",
	}

	msg := Compose(testContact, citation)
	for _, want := range []string{
		"Dear Dr. Anna Schmidt,",
		"specialist in cardiology based in Hamburg",
		"Recent research you might find valuable:",
		"\"Cardiology guidelines 2024\"",
		"https://pubmed.ncbi.nlm.nih.gov/111/",
		"Let us know if you’d like to explore further.",
		"Best regards,",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestComposeWithoutCitationOmitsResearchBlock(t *testing.T) {
	t.Parallel()

	msg := Compose(testContact, nil)
	if strings.Contains(msg, "Recent research") {
		t.Fatalf("message should omit research block:\n%s", msg)
	}
	if !strings.Contains(msg, "Dear Dr. Anna Schmidt,") {
		t.Fatalf("message missing salutation:\n%s", msg)
	}
	if !strings.Contains(msg, "cardiology") || !strings.Contains(msg, "Hamburg") {
		t.Fatalf("message missing specialty or city:\n%s", msg)
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	t.Parallel()

	citation := &contractx.Citation{Title: "T", URL: "https://example.org"}
	if Compose(testContact, citation) != Compose(testContact, citation) {
		t.Fatal("identical inputs produced different output")
	}
}

func TestComposeFallbacks(t *testing.T) {
	t.Parallel()

	msg := Compose(contractx.Contact{}, nil)
	for _, want := range []string{"Dear Doctor,", "your field", "your area"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing fallback %q:\n%s", want, msg)
		}
	}
}
