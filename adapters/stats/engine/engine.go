package engine

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"fairplay/domain/game"
)

// Strictness selects the CV threshold tier for flat-timing detection. The
// streak tier is tighter because it is evaluated per-window rather than over
// the whole game.
type Strictness int

const (
	HighlyFlat Strictness = iota
	HighlyFlatStreak
	ModeratelyFlat
)

const (
	cvHighlyFlat       = 0.25
	cvHighlyFlatStreak = 0.15
	cvModeratelyFlat   = 0.40

	// A CV over fewer than two observations is degenerate and treated as
	// absent rather than fabricated.
	minCVSamples = 2
)

// Average returns the mean of xs, or 0 for an empty sample. Callers must
// treat an empty sample as "no signal".
func Average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean, err := stats.Mean(xs)
	if err != nil {
		return 0
	}
	return mean
}

// StandardDeviation returns the population standard deviation of xs, or 0
// for an empty sample.
func StandardDeviation(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sd, err := stats.StandardDeviation(xs)
	if err != nil {
		return 0
	}
	return sd
}

// CoefficientOfVariation returns sd/mean and whether it is defined. It is
// absent for samples smaller than two observations or with a zero mean.
func CoefficientOfVariation(xs []float64) (float64, bool) {
	if len(xs) < minCVSamples {
		return 0, false
	}
	mean := stat.Mean(xs, nil)
	if mean == 0 {
		return 0, false
	}
	return stat.PopStdDev(xs, nil) / mean, true
}

// SlidingWindows returns every contiguous window of the given size over xs.
// Windows share xs's backing array; the sequence is re-derived from the
// source on every call, so there is no cursor state to restart.
func SlidingWindows(xs []float64, size int) [][]float64 {
	if size <= 0 || len(xs) < size {
		return nil
	}
	windows := make([][]float64, 0, len(xs)-size+1)
	for i := 0; i+size <= len(xs); i++ {
		windows = append(windows, xs[i:i+size])
	}
	return windows
}

// DensestBooleanWindow returns the highest count of set bits over all
// windows of the given size. It returns 0 when bits is shorter than the
// window.
func DensestBooleanWindow(bits []bool, size int) int {
	if size <= 0 || len(bits) < size {
		return 0
	}
	count := 0
	for i := 0; i < size; i++ {
		if bits[i] {
			count++
		}
	}
	densest := count
	for i := size; i < len(bits); i++ {
		if bits[i] {
			count++
		}
		if bits[i-size] {
			count--
		}
		if count > densest {
			densest = count
		}
	}
	return densest
}

// CvIndicatesFlatTimes reports whether a move-time CV falls under the
// threshold of the given strictness tier.
func CvIndicatesFlatTimes(cv float64, strictness Strictness) bool {
	switch strictness {
	case HighlyFlat:
		return cv < cvHighlyFlat
	case HighlyFlatStreak:
		return cv < cvHighlyFlatStreak
	case ModeratelyFlat:
		return cv < cvModeratelyFlat
	}
	return false
}

// HasFlatWindow reports whether any sliding window of the given size has a
// defined CV under the streak threshold. This catches a player who is flat
// for only a portion of the game while overall variation looks normal.
func HasFlatWindow(xs []float64, size int) bool {
	for _, window := range SlidingWindows(xs, size) {
		cv, ok := CoefficientOfVariation(window)
		if ok && CvIndicatesFlatTimes(cv, HighlyFlatStreak) {
			return true
		}
	}
	return false
}

// FastMoveThreshold returns the reflex-move bound in tenths of a second for
// a speed tier. Moves strictly under it count as reflex moves.
func FastMoveThreshold(tier game.SpeedTier) int {
	switch tier {
	case game.UltraBullet, game.Bullet:
		return 10
	case game.Blitz:
		return 15
	default:
		return 25
	}
}

// HasFastMove reports whether any move time in tenths falls under the
// tier's reflex bound.
func HasFastMove(tenths []float64, tier game.SpeedTier) bool {
	threshold := float64(FastMoveThreshold(tier))
	for _, t := range tenths {
		if t < threshold {
			return true
		}
	}
	return false
}

// RoundTenths converts a centisecond duration to the nearest tenth of a
// second. Move times are rounded to tenths before any averaging.
func RoundTenths(centis int) int {
	return int(math.Round(float64(centis) / 10))
}
