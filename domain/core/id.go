package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	GameID       ID
	PlayerID     ID
	AssessmentID ID
	RunID        ID
)

// String conversions for domain IDs
func (id GameID) String() string       { return ID(id).String() }
func (id GameID) IsEmpty() bool { return ID(id).IsEmpty() }
func (id PlayerID) String() string     { return ID(id).String() }
func (id AssessmentID) String() string { return ID(id).String() }
func (id RunID) String() string        { return ID(id).String() }

// AssessmentIDFor derives the record identity from its game and color.
// The same (game, color) pair always maps to the same ID, so repeated
// assembly is idempotent at the value level.
func AssessmentIDFor(game GameID, color string) AssessmentID {
	return AssessmentID(fmt.Sprintf("%s/%s", game, color))
}

// ParseGameID parses a string into GameID
func ParseGameID(s string) (GameID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("game ID cannot be empty")
	}
	return GameID(s), nil
}

// ParsePlayerID parses a string into PlayerID
func ParsePlayerID(s string) (PlayerID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("player ID cannot be empty")
	}
	return PlayerID(s), nil
}
