package domain

// AssembledContext is the read-only view over a RetrievalResult handed to the
// explanation generator. Built fresh per request, never mutated afterwards.
type AssembledContext struct {
	Term             string
	BrandName        string
	GlossaryMatch    *GlossaryEntry
	RelatedGlossary  []GlossaryEntry
	RelevantPatterns []PatternEntry
	CategoryPlaybook []PlaybookEntry
	BrandContext     []BrandChunk
}

// Assemble merges retrieval results into an AssembledContext. Pure function:
// the top glossary hit becomes the match (nil when the list is empty), the
// rest become related terms; other categories pass through unchanged.
func Assemble(term string, res RetrievalResult, brandName string) AssembledContext {
	ctx := AssembledContext{
		Term:             term,
		BrandName:        brandName,
		RelevantPatterns: res.Patterns,
		CategoryPlaybook: res.Playbooks,
		BrandContext:     res.Brands,
	}

	if len(res.Glossary) > 0 {
		match := res.Glossary[0]
		ctx.GlossaryMatch = &match
		ctx.RelatedGlossary = res.Glossary[1:]
	}

	return ctx
}
