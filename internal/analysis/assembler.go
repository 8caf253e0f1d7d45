package analysis

import (
	"time"

	"fairplay/adapters/stats/engine"
	"fairplay/adapters/stats/signals"
	"fairplay/domain/assessment"
	"fairplay/domain/core"
	"fairplay/domain/game"
)

// TCFactor is the per-speed-tier scaling factor recorded with each
// assessment: faster games weigh heavier, classical games lighter.
func TCFactor(tier game.SpeedTier) float64 {
	switch tier {
	case game.UltraBullet, game.Bullet:
		return 1.25
	case game.Blitz:
		return 1.0
	case game.Classical:
		return 0.6
	default:
		return 1.0
	}
}

// Assemble builds the immutable evidence record from the resolved verdict
// and extraction. The creation timestamp is injected so the output is fully
// reproducible; two assemblies from identical inputs are equal values.
func Assemble(obs game.Observation, ex signals.Extraction, verdict assessment.Verdict, now time.Time) assessment.Record {
	rec := assessment.Record{
		ID:         core.AssessmentIDFor(obs.GameID, obs.Color.String()),
		GameID:     obs.GameID,
		PlayerID:   obs.PlayerID,
		Color:      obs.Color,
		Verdict:    verdict,
		Flags:      ex.Flags,
		MoveTimes:  summarize(ex.MoveTimeTenths),
		CpLosses:   summarize(ex.CpLosses),
		TCFactor:   TCFactor(obs.Speed),
		AssessedAt: core.NewTimestamp(now),
	}
	if ex.BlurStreak > 0 {
		streak := ex.BlurStreak
		rec.BlurStreak = &streak
	}
	rec.MoveTimeStreak = ex.MoveTimeStreak
	return rec
}

func summarize(xs []float64) assessment.Summary {
	return assessment.Summary{
		Avg:     engine.Average(xs),
		SD:      engine.StandardDeviation(xs),
		Samples: len(xs),
	}
}
