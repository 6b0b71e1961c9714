package explain

import (
	"encoding/json"
	"strings"

	"github.com/ayo-labs/copilot/internal/domain"
)

// buildPrompt renders the assembled context into the single instruction block
// sent to the chat model.
func buildPrompt(ac domain.AssembledContext) string {
	var b strings.Builder

	b.WriteString("You are AYO Co-Pilot, an AI assistant that explains financial terms in plain language.\n\n")
	b.WriteString("Your task: Explain the term \"" + ac.Term + "\" in a way that's accurate but accessible.\n\n")

	if ac.GlossaryMatch != nil {
		b.WriteString("## Glossary Definition:\n")
		b.WriteString(indentJSON(ac.GlossaryMatch.Content))
		b.WriteString("\n\n")
	}

	if len(ac.RelatedGlossary) > 0 {
		b.WriteString("## Related Terms:\n")
		for _, t := range ac.RelatedGlossary {
			b.WriteString("- " + t.Term + ": " + definitionOf(t.Content) + "\n")
		}
		b.WriteString("\n")
	}

	if len(ac.CategoryPlaybook) > 0 {
		b.WriteString("## Category Context:\n")
		for _, p := range ac.CategoryPlaybook {
			b.WriteString("### " + p.Category + " - " + p.Section + ":\n")
			b.WriteString(indentJSON(p.Content))
			b.WriteString("\n\n")
		}
	}

	if ac.BrandName != "" && len(ac.BrandContext) > 0 {
		b.WriteString("## " + ac.BrandName + " Context:\n")
		for _, c := range ac.BrandContext {
			b.WriteString("### " + c.Section + ":\n")
			b.WriteString(indentJSON(c.Content))
			b.WriteString("\n\n")
		}
	}

	if len(ac.RelevantPatterns) > 0 {
		b.WriteString("## Relevant Event Patterns:\n")
		for _, p := range ac.RelevantPatterns {
			b.WriteString("- " + p.Pattern + ": " + indentJSON(p.Content) + "\n")
		}
		b.WriteString("\n")
	}

	brandLabel := ac.BrandName
	if brandLabel == "" {
		brandLabel = "the brand"
	}

	b.WriteString(`## Instructions:

1. Provide a **definition** (technical but clear)
2. Provide **real_talk** (plain English, conversational, no jargon)
3. Explain **where_it_shows_up** (where in financial statements/reports)
4. Explain **why_it_matters** (why investors care)
5. If brand context is available, provide **brand_context** (how this term specifically relates to ` + brandLabel + `)
6. If category context is available, provide **category_context** (industry-specific nuances)
7. List **related_terms** (3-5 related concepts)

## Output Format:
Return ONLY a JSON object with these fields (no markdown, no code blocks):

{
  "definition": "...",
  "real_talk": "...",
  "where_it_shows_up": "...",
  "why_it_matters": "...",
  "brand_context": "..." (only if brand mentioned),
  "category_context": "..." (only if category context available),
  "related_terms": ["term1", "term2", "term3"]
}

## Style Guidelines:
- Be conversational but accurate
- Use analogies when helpful
- Avoid jargon in "real_talk"
- Be specific to the brand/category when context is available
- If you don't have enough information, say "I don't have specific information about this"
- NEVER make up numbers or facts
- NEVER give investment advice

Generate the explanation now:`)

	return b.String()
}

// indentJSON pretty-prints stored content for the prompt; falls back to the
// raw text when the stored value is not valid JSON.
func indentJSON(raw json.RawMessage) string {
	var buf strings.Builder
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return string(raw)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// definitionOf pulls the short definition field out of glossary content.
func definitionOf(raw json.RawMessage) string {
	var c struct {
		Definition string `json:"definition"`
	}
	if err := json.Unmarshal(raw, &c); err != nil || c.Definition == "" {
		return string(raw)
	}
	return c.Definition
}
