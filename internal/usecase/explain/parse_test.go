package explain

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ayo-labs/copilot/internal/domain"
)

const sampleJSON = `{
  "definition": "Revenue minus cost of goods sold, divided by revenue.",
  "real_talk": "Out of every dollar Nike makes, how much is left after making the shoe.",
  "why_it_matters": "Shows pricing power.",
  "related_terms": ["Operating Margin", "COGS"]
}`

func TestParseExplanation_FencedAndBareAreEquivalent(t *testing.T) {
	bare, err := parseExplanation(sampleJSON)
	if err != nil {
		t.Fatalf("bare: %v", err)
	}

	fenced, err := parseExplanation("```json\n" + sampleJSON + "\n```")
	if err != nil {
		t.Fatalf("json fence: %v", err)
	}

	plain, err := parseExplanation("```\n" + sampleJSON + "\n```")
	if err != nil {
		t.Fatalf("plain fence: %v", err)
	}

	if !reflect.DeepEqual(bare, fenced) || !reflect.DeepEqual(bare, plain) {
		t.Error("fenced and bare payloads must parse to the same record")
	}
}

func TestParseExplanation_MandatoryFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing definition", `{"real_talk": "hey"}`},
		{"missing real_talk", `{"definition": "a thing"}`},
		{"empty definition", `{"definition": "", "real_talk": "hey"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseExplanation(tt.body)
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestParseExplanation_InvalidJSON(t *testing.T) {
	_, err := parseExplanation("Sorry, I can't help with that.")
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestParseExplanation_OptionalFieldsStayAbsent(t *testing.T) {
	expl, err := parseExplanation(`{"definition": "d", "real_talk": "r"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if expl.BrandContext != "" || expl.WhereItShowsUp != "" || expl.RelatedTerms != nil {
		t.Error("absent optional fields must not be defaulted")
	}
}
