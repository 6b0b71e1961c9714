package detect

import (
	"context"

	"github.com/ayo-labs/copilot/internal/domain"
)

// RosterReader loads the brand roster in deterministic iteration order.
type RosterReader interface {
	Roster(ctx context.Context) ([]domain.Brand, error)
}
