package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairplay/adapters/stats/signals"
	"fairplay/domain/assessment"
	"fairplay/domain/core"
	"fairplay/domain/game"
)

func testObservation() game.Observation {
	return game.Observation{
		GameID:    "game42",
		PlayerID:  "magnus",
		Color:     game.Black,
		Speed:     game.Blitz,
		Clock:     game.TimeControl{LimitSeconds: 300},
		MoveTimes: []int{94, 95, 104},
		Blurs:     []bool{false, true, false},
		Evals:     []game.EvalSample{{Cp: intp(20)}, {Cp: intp(-40)}, {Cp: intp(30)}},
	}
}

func intp(v int) *int { return &v }

func TestAssemble_IdentityAndSummaries(t *testing.T) {
	obs := testObservation()
	ex, err := signals.Extract(obs)
	require.NoError(t, err)

	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	rec := Assemble(obs, ex, assessment.Unclear, now)

	assert.Equal(t, core.AssessmentID("game42/black"), rec.ID)
	assert.Equal(t, core.GameID("game42"), rec.GameID)
	assert.Equal(t, core.PlayerID("magnus"), rec.PlayerID)
	assert.Equal(t, game.Black, rec.Color)
	assert.Equal(t, assessment.Unclear, rec.Verdict)
	assert.Equal(t, core.NewTimestamp(now), rec.AssessedAt)

	// Move times rounded to tenths before averaging: 94, 95, 104 centis
	// become 9, 10, 10.
	assert.Equal(t, 3, rec.MoveTimes.Samples)
	assert.InDelta(t, 29.0/3.0, rec.MoveTimes.Avg, 1e-9)

	assert.Equal(t, 3, rec.CpLosses.Samples)
	assert.InDelta(t, 30.0, rec.CpLosses.Avg, 1e-9)
}

func TestAssemble_Deterministic(t *testing.T) {
	obs := testObservation()
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	ex1, err := signals.Extract(obs)
	require.NoError(t, err)
	ex2, err := signals.Extract(obs)
	require.NoError(t, err)

	rec1 := Assemble(obs, ex1, assessment.LikelyCheating, now)
	rec2 := Assemble(obs, ex2, assessment.LikelyCheating, now)
	assert.Equal(t, rec1, rec2, "identical inputs must assemble equal values")
}

func TestTCFactor(t *testing.T) {
	assert.Equal(t, 1.25, TCFactor(game.UltraBullet))
	assert.Equal(t, 1.25, TCFactor(game.Bullet))
	assert.Equal(t, 1.0, TCFactor(game.Blitz))
	assert.Equal(t, 1.0, TCFactor(game.Rapid))
	assert.Equal(t, 0.6, TCFactor(game.Classical))
	assert.Equal(t, 1.0, TCFactor(game.Correspondence))
}

func TestAssemble_StreakMarkers(t *testing.T) {
	obs := testObservation()
	now := time.Now()

	rec := Assemble(obs, signals.Extraction{}, assessment.NotCheating, now)
	assert.Nil(t, rec.BlurStreak, "zero blur chunk is dropped")
	assert.False(t, rec.MoveTimeStreak)

	rec = Assemble(obs, signals.Extraction{BlurStreak: 9, MoveTimeStreak: true}, assessment.NotCheating, now)
	require.NotNil(t, rec.BlurStreak)
	assert.Equal(t, 9, *rec.BlurStreak)
	assert.True(t, rec.MoveTimeStreak)
}
