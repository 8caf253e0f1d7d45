package referee

import (
	"fairplay/domain/assessment"
)

// rule is one row of the decision table: a predicate over the flag set and
// the verdict it yields. Unconstrained flags are simply not mentioned by the
// predicate.
type rule struct {
	name    string
	matches func(f assessment.Flags) bool
	verdict assessment.Verdict
}

// table is evaluated top to bottom, first match wins. The ordering is part
// of the contract: several rows overlap and the earlier row takes priority.
// The final row is a total default, so the table cannot be exhausted.
var table = []rule{
	{"accuracy+high blurs+no reflex", func(f assessment.Flags) bool {
		return f.HighAccuracy && f.HighBlurRate && f.NoFastMoves
	}, assessment.Cheating},
	{"accuracy+moderate blurs", func(f assessment.Flags) bool {
		return f.HighAccuracy && f.ModerateBlurRate
	}, assessment.Cheating},
	{"accuracy+flat times", func(f assessment.Flags) bool {
		return f.HighAccuracy && f.HighlyConsistentMoveTimes
	}, assessment.Cheating},
	{"high blurs+flat times", func(f assessment.Flags) bool {
		return f.HighBlurRate && f.HighlyConsistentMoveTimes
	}, assessment.Cheating},
	{"moderate blurs+moderately flat times", func(f assessment.Flags) bool {
		return f.ModerateBlurRate && f.ModeratelyConsistentMoveTimes
	}, assessment.LikelyCheating},
	{"accuracy+hold alert", func(f assessment.Flags) bool {
		return f.HighAccuracy && f.SuspiciousHoldAlert
	}, assessment.LikelyCheating},
	{"advantage+hold alert", func(f assessment.Flags) bool {
		return f.AdvantageAlwaysHeld && f.SuspiciousHoldAlert
	}, assessment.LikelyCheating},
	{"flat times alone", func(f assessment.Flags) bool {
		return f.HighlyConsistentMoveTimes
	}, assessment.LikelyCheating},
	{"advantage+high blurs", func(f assessment.Flags) bool {
		return f.AdvantageAlwaysHeld && f.HighBlurRate
	}, assessment.LikelyCheating},
	{"advantage+moderately flat+no reflex", func(f assessment.Flags) bool {
		return f.AdvantageAlwaysHeld && f.ModeratelyConsistentMoveTimes && f.NoFastMoves
	}, assessment.Unclear},
	{"accuracy+moderately flat+no reflex", func(f assessment.Flags) bool {
		return f.HighAccuracy && f.ModeratelyConsistentMoveTimes && f.NoFastMoves
	}, assessment.Unclear},
	{"accuracy alone+no reflex", func(f assessment.Flags) bool {
		return f.HighAccuracy && !f.ModerateBlurRate && !f.ModeratelyConsistentMoveTimes && f.NoFastMoves
	}, assessment.Unclear},
	{"accuracy with reflex moves", func(f assessment.Flags) bool {
		return f.HighAccuracy && !f.NoFastMoves
	}, assessment.UnlikelyCheating},
	{"neither accuracy nor advantage", func(f assessment.Flags) bool {
		return !f.HighAccuracy && !f.AdvantageAlwaysHeld
	}, assessment.NotCheating},
	{"default", func(f assessment.Flags) bool {
		return true
	}, assessment.NotCheating},
}

// Classify maps the flag set to its raw table verdict, before overrides.
func Classify(f assessment.Flags) assessment.Verdict {
	for _, r := range table {
		if r.matches(f) {
			return r.verdict
		}
	}
	// Unreachable: the last row matches everything.
	return assessment.NotCheating
}

// Resolve applies the post-table overrides, in this exact order: hold
// evidence is trusted at face value and never softened; a loss or draw
// needs no softening either; a win without corroborating hold evidence gets
// exactly one step of benefit-of-doubt.
func Resolve(f assessment.Flags, won bool) assessment.Verdict {
	v := Classify(f)
	if f.SuspiciousHoldAlert {
		return v
	}
	if !won {
		return v
	}
	return downgrade(v)
}

// downgrade softens a verdict by exactly one severity step. The cap means
// Cheating can never silently become NotCheating.
func downgrade(v assessment.Verdict) assessment.Verdict {
	switch v {
	case assessment.Cheating:
		return assessment.LikelyCheating
	case assessment.LikelyCheating:
		return assessment.Unclear
	default:
		return v
	}
}
