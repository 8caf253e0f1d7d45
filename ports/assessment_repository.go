package ports

import (
	"context"

	"fairplay/domain/assessment"
	"fairplay/domain/core"
	"fairplay/domain/game"
)

// AssessmentRepository persists evidence records keyed by (game id, color).
// The core never reads back prior records during assessment and never
// deduplicates; recomputation simply saves a new value under the same key.
type AssessmentRepository interface {
	// Save stores a record, replacing any previous record for the same
	// (game, color) pair.
	Save(ctx context.Context, rec assessment.Record) error

	// GetByGame returns the record for one side of a game, or nil when
	// none has been stored.
	GetByGame(ctx context.Context, gameID core.GameID, color game.Color) (*assessment.Record, error)

	// ListByPlayer returns a player's most recent records, newest first.
	ListByPlayer(ctx context.Context, playerID core.PlayerID, limit int) ([]assessment.Record, error)
}
