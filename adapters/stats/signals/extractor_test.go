package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairplay/domain/assessment"
	"fairplay/domain/core"
	"fairplay/domain/game"
)

func intp(v int) *int { return &v }

func cpSamples(cps ...int) []game.EvalSample {
	samples := make([]game.EvalSample, len(cps))
	for i, cp := range cps {
		samples[i] = game.EvalSample{Cp: intp(cp)}
	}
	return samples
}

// baseObservation is a bullet game with nothing suspicious about it: varied
// move times including a reflex move, no blurs, ordinary accuracy, one bad
// excursion in the eval trace.
func baseObservation() game.Observation {
	return game.Observation{
		GameID:   "game1",
		PlayerID: "player1",
		Color:    game.White,
		Speed:    game.Bullet,
		Clock:    game.TimeControl{LimitSeconds: 180},
		MoveTimes: []int{
			120, 880, 150, 850, 180, 820, 210, 790,
			80, 760, 270, 730, 300, 700, 330, 670,
		},
		Blurs: make([]bool, 16),
		Evals: cpSamples(30, -40, 60, -150, 35, 45, -50, 30, 40, -55, 30, 25, 45, -35, 60, 40),
	}
}

func TestExtract_BaseObservationNoSignals(t *testing.T) {
	ex, err := Extract(baseObservation())
	require.NoError(t, err)

	assert.Equal(t, assessment.Flags{}, ex.Flags)
	assert.Equal(t, 0, ex.BlurStreak)
	assert.False(t, ex.MoveTimeStreak)
	assert.Len(t, ex.MoveTimeTenths, 16)
	assert.Len(t, ex.CpLosses, 16)
}

func TestExtract_HighAccuracyThresholds(t *testing.T) {
	tests := []struct {
		name    string
		tier    game.SpeedTier
		avgLoss int
		want    bool
	}{
		{"bullet under fastest threshold", game.Bullet, 18, true},
		{"ultrabullet under fastest threshold", game.UltraBullet, 24, true},
		{"bullet at threshold", game.Bullet, 25, false},
		{"blitz under mid threshold", game.Blitz, 18, false},
		{"blitz well under mid threshold", game.Blitz, 14, true},
		{"rapid over slow threshold", game.Rapid, 18, false},
		{"classical under slow threshold", game.Classical, 12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := baseObservation()
			obs.Speed = tt.tier
			losses := make([]int, 16)
			for i := range losses {
				losses[i] = tt.avgLoss
			}
			obs.Evals = cpSamples(losses...)

			ex, err := Extract(obs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ex.Flags.HighAccuracy)
		})
	}

	t.Run("no scored plies means no signal", func(t *testing.T) {
		obs := baseObservation()
		obs.Evals = nil
		ex, err := Extract(obs)
		require.NoError(t, err)
		assert.False(t, ex.Flags.HighAccuracy)
	})
}

func TestExtract_MateConversionBySign(t *testing.T) {
	obs := baseObservation()
	obs.Evals = []game.EvalSample{
		{Mate: intp(3)},
		{Mate: intp(-2)},
		{Cp: intp(10)},
	}

	ex, err := Extract(obs)
	require.NoError(t, err)

	// Favourable mate counts 0 loss, unfavourable 100: average 110/3.
	assert.Equal(t, []float64{0, 100, 10}, ex.CpLosses)
	assert.False(t, ex.Flags.HighAccuracy)
	assert.False(t, ex.Flags.AdvantageAlwaysHeld, "losing mate orientation breaks the invariant")

	obs.Evals = []game.EvalSample{{Mate: intp(3)}, {Cp: intp(10)}}
	ex, err = Extract(obs)
	require.NoError(t, err)
	assert.True(t, ex.Flags.HighAccuracy)
	assert.True(t, ex.Flags.AdvantageAlwaysHeld)
}

func TestExtract_AdvantageAlwaysHeld(t *testing.T) {
	obs := baseObservation()

	obs.Evals = cpSamples(50, -100, 30, 0, -80)
	ex, err := Extract(obs)
	require.NoError(t, err)
	assert.True(t, ex.Flags.AdvantageAlwaysHeld, "dipping to the margin is not beyond it")

	// One excursion beyond the margin is enough: this is a for-all
	// invariant, not an average.
	obs.Evals = cpSamples(50, -101, 30, 0, -80)
	ex, err = Extract(obs)
	require.NoError(t, err)
	assert.False(t, ex.Flags.AdvantageAlwaysHeld)

	obs.Evals = nil
	ex, err = Extract(obs)
	require.NoError(t, err)
	assert.False(t, ex.Flags.AdvantageAlwaysHeld, "unscored game carries no signal")

	// Unscored gaps are skipped, not treated as zero.
	obs.Evals = []game.EvalSample{{Cp: intp(40)}, {}, {Cp: intp(20)}}
	ex, err = Extract(obs)
	require.NoError(t, err)
	assert.True(t, ex.Flags.AdvantageAlwaysHeld)
}

func blurObservation(bits []bool) game.Observation {
	obs := baseObservation()
	moveTimes := make([]int, len(bits))
	for i := range moveTimes {
		if i%2 == 0 {
			moveTimes[i] = 150 + 10*i
		} else {
			moveTimes[i] = 800 - 10*i
		}
	}
	obs.MoveTimes = moveTimes
	obs.Blurs = bits
	return obs
}

func TestExtract_BlurRates(t *testing.T) {
	t.Run("overall percentage", func(t *testing.T) {
		bits := make([]bool, 20)
		for i := 1; i < 20; i++ {
			bits[i] = true // 95%
		}
		ex, err := Extract(blurObservation(bits))
		require.NoError(t, err)
		assert.True(t, ex.Flags.HighBlurRate)
		assert.True(t, ex.Flags.ModerateBlurRate)
		assert.Equal(t, 12, ex.BlurStreak)
	})

	t.Run("dense chunk with low overall rate", func(t *testing.T) {
		bits := make([]bool, 24)
		for i := 0; i < 11; i++ {
			bits[i] = true // 46% overall, 11 in one 12-move chunk
		}
		ex, err := Extract(blurObservation(bits))
		require.NoError(t, err)
		assert.True(t, ex.Flags.HighBlurRate)
		assert.True(t, ex.Flags.ModerateBlurRate)
		assert.Equal(t, 11, ex.BlurStreak)
	})

	t.Run("moderate chunk only", func(t *testing.T) {
		bits := make([]bool, 24)
		for i := 0; i < 8; i++ {
			bits[i] = true
		}
		ex, err := Extract(blurObservation(bits))
		require.NoError(t, err)
		assert.False(t, ex.Flags.HighBlurRate)
		assert.True(t, ex.Flags.ModerateBlurRate)
	})

	t.Run("simul suppression", func(t *testing.T) {
		bits := make([]bool, 20)
		for i := range bits {
			bits[i] = true
		}
		obs := blurObservation(bits)
		obs.Simul = true
		ex, err := Extract(obs)
		require.NoError(t, err)
		assert.False(t, ex.Flags.HighBlurRate)
		assert.False(t, ex.Flags.ModerateBlurRate)
	})
}

func TestExtract_ConsistencyDurationGate(t *testing.T) {
	// 40 second game: too short for timing analysis even with perfectly
	// flat move times.
	obs := baseObservation()
	obs.Clock = game.TimeControl{LimitSeconds: 40}
	obs.MoveTimes = []int{300, 300, 300, 300, 300, 300, 300, 300, 300, 300, 300, 300}
	obs.Blurs = make([]bool, 12)
	obs.Evals = nil

	ex, err := Extract(obs)
	require.NoError(t, err)
	assert.False(t, ex.Flags.HighlyConsistentMoveTimes)
	assert.False(t, ex.Flags.ModeratelyConsistentMoveTimes)
	assert.False(t, ex.MoveTimeStreak)

	// Increment counts toward the estimate: 40+40*1 > 60.
	obs.Clock = game.TimeControl{LimitSeconds: 40, IncrementSeconds: 1}
	ex, err = Extract(obs)
	require.NoError(t, err)
	assert.True(t, ex.Flags.HighlyConsistentMoveTimes)
	assert.True(t, ex.Flags.ModeratelyConsistentMoveTimes)
	assert.True(t, ex.MoveTimeStreak)
}

func TestExtract_CVAbsenceOnTinySamples(t *testing.T) {
	for _, n := range []int{0, 1} {
		obs := baseObservation()
		obs.MoveTimes = make([]int, n)
		for i := range obs.MoveTimes {
			obs.MoveTimes[i] = 300
		}
		obs.Blurs = make([]bool, n)
		obs.Evals = nil

		ex, err := Extract(obs)
		require.NoError(t, err)
		assert.False(t, ex.Flags.HighlyConsistentMoveTimes, "n=%d", n)
		assert.False(t, ex.Flags.ModeratelyConsistentMoveTimes, "n=%d", n)
		assert.False(t, ex.Flags.NoFastMoves, "empty sequence carries no signal")
	}
}

func TestExtract_LocalizedFlatStreak(t *testing.T) {
	// Ten flat moves buried in an otherwise erratic game: the global CV
	// looks normal but the window check still fires.
	obs := baseObservation()
	obs.MoveTimes = []int{
		300, 300, 300, 300, 300, 300, 300, 300, 300, 300,
		80, 700, 120, 650, 90, 580,
	}
	obs.Blurs = make([]bool, 16)

	ex, err := Extract(obs)
	require.NoError(t, err)
	assert.True(t, ex.Flags.HighlyConsistentMoveTimes)
	assert.False(t, ex.Flags.ModeratelyConsistentMoveTimes)
	assert.True(t, ex.MoveTimeStreak)
}

func TestExtract_NoFastMoves(t *testing.T) {
	obs := baseObservation()
	ex, err := Extract(obs)
	require.NoError(t, err)
	assert.False(t, ex.Flags.NoFastMoves, "base observation has an 0.8s reflex move")

	for i, mt := range obs.MoveTimes {
		if mt < 100 {
			obs.MoveTimes[i] = 150
		}
	}
	ex, err = Extract(obs)
	require.NoError(t, err)
	assert.True(t, ex.Flags.NoFastMoves)
}

func TestExtract_HoldAlertPassthrough(t *testing.T) {
	obs := baseObservation()
	obs.HoldAlert = true
	ex, err := Extract(obs)
	require.NoError(t, err)
	assert.True(t, ex.Flags.SuspiciousHoldAlert)
}

func TestExtract_MalformedObservations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*game.Observation)
	}{
		{"blur length mismatch", func(o *game.Observation) { o.Blurs = make([]bool, 3) }},
		{"unknown speed tier", func(o *game.Observation) { o.Speed = "hyperbullet" }},
		{"unknown color", func(o *game.Observation) { o.Color = "red" }},
		{"negative move time", func(o *game.Observation) { o.MoveTimes[0] = -1 }},
		{"more evals than moves", func(o *game.Observation) { o.Evals = cpSamples(make([]int, 17)...) }},
		{"empty game id", func(o *game.Observation) { o.GameID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := baseObservation()
			tt.mutate(&obs)
			_, err := Extract(obs)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrMalformedObservation)
		})
	}
}
