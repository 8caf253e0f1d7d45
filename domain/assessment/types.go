package assessment

import (
	"encoding/json"
	"fmt"

	"fairplay/domain/core"
	"fairplay/domain/game"
)

// Verdict is the ordered cheating-likelihood category assigned to a player
// for one game. The ordering matters: the win-without-hold override moves a
// verdict exactly one step down this scale.
type Verdict int

const (
	NotCheating Verdict = iota + 1
	UnlikelyCheating
	Unclear
	LikelyCheating
	Cheating
)

var verdictNames = map[Verdict]string{
	NotCheating:      "not_cheating",
	UnlikelyCheating: "unlikely_cheating",
	Unclear:          "unclear",
	LikelyCheating:   "likely_cheating",
	Cheating:         "cheating",
}

// String returns the wire name of the verdict
func (v Verdict) String() string {
	if name, ok := verdictNames[v]; ok {
		return name
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}

// ParseVerdict parses a wire name into a Verdict
func ParseVerdict(s string) (Verdict, error) {
	for v, name := range verdictNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown verdict %q", s)
}

func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *Verdict) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVerdict(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Flags is the set of eight independent behavioral signals extracted from
// one observation. Each is deliberately weak on its own; the decision table
// derives its strength from their combination.
type Flags struct {
	HighAccuracy                  bool `json:"high_accuracy"`
	AdvantageAlwaysHeld           bool `json:"advantage_always_held"`
	HighBlurRate                  bool `json:"high_blur_rate"`
	ModerateBlurRate              bool `json:"moderate_blur_rate"`
	HighlyConsistentMoveTimes     bool `json:"highly_consistent_move_times"`
	ModeratelyConsistentMoveTimes bool `json:"moderately_consistent_move_times"`
	NoFastMoves                   bool `json:"no_fast_moves"`
	SuspiciousHoldAlert           bool `json:"suspicious_hold_alert"`
}

// Summary holds average/standard-deviation statistics over one sample.
// Samples of size zero mean "no signal", not a fabricated zero observation.
type Summary struct {
	Avg     float64 `json:"avg"`
	SD      float64 `json:"sd"`
	Samples int     `json:"samples"`
}

// Record is the immutable evidence record produced for one (game, player)
// pair. Identity is derived from game and color, so two assemblies from
// identical inputs are equal values.
type Record struct {
	ID       core.AssessmentID `json:"id"`
	GameID   core.GameID       `json:"game_id"`
	PlayerID core.PlayerID     `json:"player_id"`
	Color    game.Color        `json:"color"`

	Verdict Verdict `json:"verdict"`
	Flags   Flags   `json:"flags"`

	// MoveTimes is summarized in tenths of a second, CpLosses in
	// centipawns.
	MoveTimes Summary `json:"move_times"`
	CpLosses  Summary `json:"cp_losses"`

	TCFactor float64 `json:"tc_factor"`

	// BlurStreak is the densest 12-move blur chunk, kept only when
	// positive. MoveTimeStreak marks a sliding-window flat-timing hit.
	BlurStreak     *int `json:"blur_streak,omitempty"`
	MoveTimeStreak bool `json:"move_time_streak,omitempty"`

	AssessedAt core.Timestamp `json:"assessed_at"`
}
