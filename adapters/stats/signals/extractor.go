package signals

import (
	"math"

	"fairplay/adapters/stats/engine"
	"fairplay/domain/assessment"
	"fairplay/domain/game"
)

// Accuracy, blur and timing thresholds. Every one is a compile-time
// constant; nothing in the pipeline mutates shared state.
const (
	accuracyFastestCp = 25
	accuracyMidFastCp = 20
	accuracySlowCp    = 15

	// advantageMarginCp is how far below neutral the mover's evaluation
	// may dip before the advantage is considered lost. An unfavourable
	// mate sample contributes mateLossCp to the accuracy average, enough
	// to clear every accuracy threshold.
	advantageMarginCp = 100
	mateLossCp        = 100

	blurHighPercent     = 90
	blurModeratePercent = 70
	blurWindow          = 12
	blurChunkHigh       = 11
	blurChunkModerate   = 8

	// Games whose estimated clock duration is at or under this bound are
	// too short for meaningful timing statistics.
	timingAnalysisMinSeconds = 60
	moveTimeWindow           = 10
)

// Extraction is everything the extractor derives from one observation: the
// eight flags plus the intermediate series and streak markers the assembler
// records as evidence.
type Extraction struct {
	Flags assessment.Flags

	// MoveTimeTenths is the move-time series rounded to tenths of a
	// second; CpLosses the per-move centipawn loss series.
	MoveTimeTenths []float64
	CpLosses       []float64

	// BlurStreak is the densest 12-move blur chunk. MoveTimeStreak marks
	// a sliding-window flat-timing hit.
	BlurStreak     int
	MoveTimeStreak bool
}

// Extract computes the eight independent signals for one observation. It is
// the validation boundary: malformed observations are rejected here, never
// truncated or padded.
func Extract(obs game.Observation) (Extraction, error) {
	if err := obs.Validate(); err != nil {
		return Extraction{}, err
	}

	ex := Extraction{
		MoveTimeTenths: moveTimeTenths(obs),
		CpLosses:       cpLosses(obs),
		BlurStreak:     engine.DensestBooleanWindow(obs.Blurs, blurWindow),
	}

	ex.Flags.HighAccuracy = highAccuracy(ex.CpLosses, obs.Speed)
	ex.Flags.AdvantageAlwaysHeld = advantageAlwaysHeld(obs.Evals)
	ex.Flags.HighBlurRate, ex.Flags.ModerateBlurRate = blurRates(obs, ex.BlurStreak)
	extractConsistency(obs, &ex)
	ex.Flags.NoFastMoves = noFastMoves(ex.MoveTimeTenths, obs.Speed)
	ex.Flags.SuspiciousHoldAlert = obs.HoldAlert

	return ex, nil
}

func moveTimeTenths(obs game.Observation) []float64 {
	tenths := make([]float64, len(obs.MoveTimes))
	for i, mt := range obs.MoveTimes {
		tenths[i] = float64(engine.RoundTenths(mt))
	}
	return tenths
}

// cpLosses converts scored samples to centipawn-loss magnitudes. Mate
// samples carry no magnitude and convert by sign alone: a mate favouring
// the mover is a perfect move, one against it a maximal loss.
func cpLosses(obs game.Observation) []float64 {
	losses := make([]float64, 0, len(obs.Evals))
	for _, e := range obs.Evals {
		switch {
		case e.Cp != nil:
			losses = append(losses, math.Abs(float64(*e.Cp)))
		case e.Mate != nil && *e.Mate > 0:
			losses = append(losses, 0)
		case e.Mate != nil && *e.Mate < 0:
			losses = append(losses, mateLossCp)
		}
	}
	return losses
}

func highAccuracy(losses []float64, tier game.SpeedTier) bool {
	if len(losses) == 0 {
		return false
	}
	return engine.Average(losses) < float64(accuracyThreshold(tier))
}

func accuracyThreshold(tier game.SpeedTier) int {
	switch tier {
	case game.UltraBullet, game.Bullet:
		return accuracyFastestCp
	case game.Blitz:
		return accuracyMidFastCp
	default:
		return accuracySlowCp
	}
}

// advantageAlwaysHeld is a for-all invariant over the scored trace: a single
// excursion below the margin, or a losing mate orientation, makes it false.
// An unscored game carries no signal.
func advantageAlwaysHeld(evals []game.EvalSample) bool {
	scored := 0
	for _, e := range evals {
		switch {
		case e.Cp != nil:
			scored++
			if *e.Cp < -advantageMarginCp {
				return false
			}
		case e.Mate != nil:
			scored++
			if *e.Mate < 0 {
				return false
			}
		}
	}
	return scored > 0
}

// blurRates is suppressed entirely for simultaneous exhibitions, where high
// blur comes from legitimate multi-tasking.
func blurRates(obs game.Observation, streak int) (high, moderate bool) {
	if obs.Simul || len(obs.Blurs) == 0 {
		return false, false
	}
	blurs := 0
	for _, b := range obs.Blurs {
		if b {
			blurs++
		}
	}
	percent := 100 * float64(blurs) / float64(len(obs.Blurs))

	high = percent > blurHighPercent || streak >= blurChunkHigh
	moderate = percent > blurModeratePercent || streak >= blurChunkModerate
	return high, moderate
}

// extractConsistency fills the two move-time consistency flags and the
// streak marker. The clock-duration gate is checked first so no statistic is
// computed on games too short to mean anything. The two flags are
// asymmetric: the sliding-window streak can promote only the highly
// consistent flag, while the moderate flag reads the whole-game CV alone.
func extractConsistency(obs game.Observation, ex *Extraction) {
	if obs.Clock.EstimateTotalSeconds() <= timingAnalysisMinSeconds {
		return
	}

	ex.MoveTimeStreak = engine.HasFlatWindow(ex.MoveTimeTenths, moveTimeWindow)

	cv, ok := engine.CoefficientOfVariation(ex.MoveTimeTenths)
	if ok {
		ex.Flags.HighlyConsistentMoveTimes = engine.CvIndicatesFlatTimes(cv, engine.HighlyFlat)
		ex.Flags.ModeratelyConsistentMoveTimes = engine.CvIndicatesFlatTimes(cv, engine.ModeratelyFlat)
	}
	if ex.MoveTimeStreak {
		ex.Flags.HighlyConsistentMoveTimes = true
	}
}

// noFastMoves is the absence of reflex moves across the whole sequence. An
// empty sequence carries no signal.
func noFastMoves(tenths []float64, tier game.SpeedTier) bool {
	if len(tenths) == 0 {
		return false
	}
	return !engine.HasFastMove(tenths, tier)
}
