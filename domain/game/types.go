package game

import (
	"fmt"

	"fairplay/domain/core"
)

// Color identifies one side of a game.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Valid reports whether the color is one of the two known sides.
func (c Color) Valid() bool {
	return c == White || c == Black
}

// String returns the string representation
func (c Color) String() string { return string(c) }

// ParseColor parses a string into Color
func ParseColor(s string) (Color, error) {
	c := Color(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownColor, s)
	}
	return c, nil
}

// SpeedTier is the discrete time-control classification. All behavioral
// thresholds (accuracy, reflex moves, tc scaling) key off it.
type SpeedTier string

const (
	UltraBullet    SpeedTier = "ultrabullet"
	Bullet         SpeedTier = "bullet"
	Blitz          SpeedTier = "blitz"
	Rapid          SpeedTier = "rapid"
	Classical      SpeedTier = "classical"
	Correspondence SpeedTier = "correspondence"
)

// Valid reports whether the tier is in the known set.
func (s SpeedTier) Valid() bool {
	switch s {
	case UltraBullet, Bullet, Blitz, Rapid, Classical, Correspondence:
		return true
	}
	return false
}

// String returns the string representation
func (s SpeedTier) String() string { return string(s) }

// ParseSpeedTier parses a string into SpeedTier
func ParseSpeedTier(s string) (SpeedTier, error) {
	tier := SpeedTier(s)
	if !tier.Valid() {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownSpeedTier, s)
	}
	return tier, nil
}

// TimeControl is the game's clock setting in seconds.
type TimeControl struct {
	LimitSeconds     int `json:"limit_seconds"`
	IncrementSeconds int `json:"increment_seconds"`
}

// EstimateTotalSeconds estimates how long one side's clock lasts over a
// typical game (40 moves' worth of increment on top of the base time).
func (tc TimeControl) EstimateTotalSeconds() int {
	return tc.LimitSeconds + 40*tc.IncrementSeconds
}

// EvalSample is one engine-scored ply from the mover's perspective: either a
// signed centipawn delta or a signed mate distance. A sample with neither is
// an unscored ply and carries no signal.
type EvalSample struct {
	Cp   *int `json:"cp,omitempty"`
	Mate *int `json:"mate,omitempty"`
}

// Scored reports whether the sample carries an engine score.
func (e EvalSample) Scored() bool {
	return e.Cp != nil || e.Mate != nil
}

// Observation is everything captured about one player in one finished game.
// Immutable once built; the whole assessment pipeline is a pure function of
// this value.
type Observation struct {
	GameID   core.GameID
	PlayerID core.PlayerID
	Color    Color
	Speed    SpeedTier
	Clock    TimeControl

	// MoveTimes holds one duration per own move, in centiseconds, ordered
	// by ply. Blurs holds one focus-loss bit per own move and must match
	// MoveTimes in length.
	MoveTimes []int
	Blurs     []bool

	// Evals holds engine samples aligned to own moves; unscored plies
	// appear as empty samples or may be omitted from the tail.
	Evals []EvalSample

	Simul     bool
	Winner    *Color
	HoldAlert bool
}

// Won reports whether this player won the game. A draw counts as not won.
func (o Observation) Won() bool {
	return o.Winner != nil && *o.Winner == o.Color
}

// Validate rejects malformed observations before any statistic is computed.
// Mismatched sequences are never truncated or padded.
func (o Observation) Validate() error {
	if o.GameID.IsEmpty() {
		return core.NewMalformedObservationError("game_id", "cannot be empty")
	}
	if !o.Color.Valid() {
		return fmt.Errorf("%w: %q", core.ErrUnknownColor, o.Color)
	}
	if !o.Speed.Valid() {
		return fmt.Errorf("%w: %q", core.ErrUnknownSpeedTier, o.Speed)
	}
	if len(o.Blurs) != len(o.MoveTimes) {
		return core.NewMalformedObservationError("blurs",
			fmt.Sprintf("length %d does not match %d move times", len(o.Blurs), len(o.MoveTimes)))
	}
	if len(o.Evals) > len(o.MoveTimes) {
		return core.NewMalformedObservationError("evals",
			fmt.Sprintf("length %d exceeds %d move times", len(o.Evals), len(o.MoveTimes)))
	}
	for i, mt := range o.MoveTimes {
		if mt < 0 {
			return core.NewMalformedObservationError("move_times",
				fmt.Sprintf("negative duration at index %d", i))
		}
	}
	if o.Winner != nil && !o.Winner.Valid() {
		return fmt.Errorf("%w: %q", core.ErrUnknownColor, *o.Winner)
	}
	return nil
}
