package explain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ayo-labs/copilot/internal/domain"
)

// parseExplanation parses the model's reply into an Explanation. Markdown
// code fences around the JSON body are tolerated and stripped. Invalid JSON
// or a missing mandatory field fails with ErrMalformedResponse; optional
// fields stay absent rather than being defaulted.
func parseExplanation(text string) (domain.Explanation, error) {
	cleaned := stripFences(strings.TrimSpace(text))

	var expl domain.Explanation
	if err := json.Unmarshal([]byte(cleaned), &expl); err != nil {
		return domain.Explanation{}, fmt.Errorf("%w: invalid JSON: %w", domain.ErrMalformedResponse, err)
	}

	if expl.Definition == "" {
		return domain.Explanation{}, fmt.Errorf("%w: missing definition", domain.ErrMalformedResponse)
	}
	if expl.RealTalk == "" {
		return domain.Explanation{}, fmt.Errorf("%w: missing real_talk", domain.ErrMalformedResponse)
	}

	return expl, nil
}

// stripFences removes an optional ```json ... ``` or ``` ... ``` wrapper.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
