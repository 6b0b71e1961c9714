// Package detect finds a known brand mentioned in a free-text query.
package detect

import (
	"context"
	"fmt"
	"strings"
)

// Service scans queries for brand mentions.
type Service struct {
	roster RosterReader
}

// New creates a detection service.
func New(roster RosterReader) *Service {
	return &Service{roster: roster}
}

// Detect returns the name of the first brand whose name or ticker appears in
// the query (case-insensitive substring), or "" when none match.
//
// Tie-break policy: the roster is read in a fixed order (ascending id) and
// the first match wins. A query mentioning several brands resolves to the
// lowest-id one; callers wanting a different brand pass an explicit hint.
func (s *Service) Detect(ctx context.Context, query string) (string, error) {
	brands, err := s.roster.Roster(ctx)
	if err != nil {
		return "", fmt.Errorf("load brand roster: %w", err)
	}

	q := strings.ToLower(query)
	for _, b := range brands {
		if b.Name != "" && strings.Contains(q, strings.ToLower(b.Name)) {
			return b.Name, nil
		}
		if b.Ticker != "" && strings.Contains(q, strings.ToLower(b.Ticker)) {
			return b.Name, nil
		}
	}
	return "", nil
}
