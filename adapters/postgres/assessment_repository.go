package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"fairplay/domain/assessment"
	"fairplay/domain/core"
	"fairplay/domain/game"
	"fairplay/internal/errors"
)

// dbError tags a storage failure with the database error code and keeps the
// driver error in the unwrap chain.
func dbError(cause error, format string, args ...interface{}) error {
	appErr := errors.DatabaseError(fmt.Sprintf(format, args...))
	appErr.Cause = cause
	return appErr
}

// AssessmentRepository stores evidence records keyed by (game id, color).
type AssessmentRepository struct {
	db *sqlx.DB
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// assessmentRow mirrors the assessments table
type assessmentRow struct {
	ID       string `db:"id"`
	GameID   string `db:"game_id"`
	PlayerID string `db:"player_id"`
	Color    string `db:"color"`
	Verdict  int    `db:"verdict"`

	HighAccuracy        bool `db:"high_accuracy"`
	AdvantageAlwaysHeld bool `db:"advantage_always_held"`
	HighBlurRate        bool `db:"high_blur_rate"`
	ModerateBlurRate    bool `db:"moderate_blur_rate"`
	HighlyConsistentMT  bool `db:"highly_consistent_mt"`
	ModeratelyConsMT    bool `db:"moderately_consistent_mt"`
	NoFastMoves         bool `db:"no_fast_moves"`
	SuspiciousHoldAlert bool `db:"suspicious_hold_alert"`

	MtAvg     float64 `db:"mt_avg"`
	MtSD      float64 `db:"mt_sd"`
	MtSamples int     `db:"mt_samples"`
	CpAvg     float64 `db:"cp_avg"`
	CpSD      float64 `db:"cp_sd"`
	CpSamples int     `db:"cp_samples"`

	TCFactor       float64       `db:"tc_factor"`
	BlurStreak     sql.NullInt64 `db:"blur_streak"`
	MoveTimeStreak bool          `db:"move_time_streak"`
	AssessedAt     time.Time     `db:"assessed_at"`
}

const assessmentColumns = `
	id, game_id, player_id, color, verdict,
	high_accuracy, advantage_always_held, high_blur_rate, moderate_blur_rate,
	highly_consistent_mt, moderately_consistent_mt, no_fast_moves, suspicious_hold_alert,
	mt_avg, mt_sd, mt_samples, cp_avg, cp_sd, cp_samples,
	tc_factor, blur_streak, move_time_streak, assessed_at`

// Save stores a record, replacing any previous record for the same
// (game, color) pair. Identity is derived, so a recomputed assessment lands
// on the same row.
func (r *AssessmentRepository) Save(ctx context.Context, rec assessment.Record) error {
	query := `
		INSERT INTO assessments (` + assessmentColumns + `)
		VALUES (
			:id, :game_id, :player_id, :color, :verdict,
			:high_accuracy, :advantage_always_held, :high_blur_rate, :moderate_blur_rate,
			:highly_consistent_mt, :moderately_consistent_mt, :no_fast_moves, :suspicious_hold_alert,
			:mt_avg, :mt_sd, :mt_samples, :cp_avg, :cp_sd, :cp_samples,
			:tc_factor, :blur_streak, :move_time_streak, :assessed_at
		)
		ON CONFLICT (id) DO UPDATE SET
			verdict = EXCLUDED.verdict,
			high_accuracy = EXCLUDED.high_accuracy,
			advantage_always_held = EXCLUDED.advantage_always_held,
			high_blur_rate = EXCLUDED.high_blur_rate,
			moderate_blur_rate = EXCLUDED.moderate_blur_rate,
			highly_consistent_mt = EXCLUDED.highly_consistent_mt,
			moderately_consistent_mt = EXCLUDED.moderately_consistent_mt,
			no_fast_moves = EXCLUDED.no_fast_moves,
			suspicious_hold_alert = EXCLUDED.suspicious_hold_alert,
			mt_avg = EXCLUDED.mt_avg,
			mt_sd = EXCLUDED.mt_sd,
			mt_samples = EXCLUDED.mt_samples,
			cp_avg = EXCLUDED.cp_avg,
			cp_sd = EXCLUDED.cp_sd,
			cp_samples = EXCLUDED.cp_samples,
			tc_factor = EXCLUDED.tc_factor,
			blur_streak = EXCLUDED.blur_streak,
			move_time_streak = EXCLUDED.move_time_streak,
			assessed_at = EXCLUDED.assessed_at`

	if _, err := r.db.NamedExecContext(ctx, query, toRow(rec)); err != nil {
		return dbError(err, "failed to save assessment %s", rec.ID)
	}
	return nil
}

// GetByGame returns the record for one side of a game, or nil when none has
// been stored.
func (r *AssessmentRepository) GetByGame(ctx context.Context, gameID core.GameID, color game.Color) (*assessment.Record, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments WHERE game_id = $1 AND color = $2`

	var row assessmentRow
	err := r.db.GetContext(ctx, &row, query, gameID.String(), color.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, dbError(err, "failed to get assessment for game %s", gameID)
	}

	rec := fromRow(row)
	return &rec, nil
}

// ListByPlayer returns a player's most recent records, newest first.
func (r *AssessmentRepository) ListByPlayer(ctx context.Context, playerID core.PlayerID, limit int) ([]assessment.Record, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE player_id = $1
		ORDER BY assessed_at DESC
		LIMIT $2`

	var rows []assessmentRow
	if err := r.db.SelectContext(ctx, &rows, query, playerID.String(), limit); err != nil {
		return nil, dbError(err, "failed to list assessments for player %s", playerID)
	}

	records := make([]assessment.Record, len(rows))
	for i, row := range rows {
		records[i] = fromRow(row)
	}
	return records, nil
}

func toRow(rec assessment.Record) assessmentRow {
	row := assessmentRow{
		ID:                  rec.ID.String(),
		GameID:              rec.GameID.String(),
		PlayerID:            rec.PlayerID.String(),
		Color:               rec.Color.String(),
		Verdict:             int(rec.Verdict),
		HighAccuracy:        rec.Flags.HighAccuracy,
		AdvantageAlwaysHeld: rec.Flags.AdvantageAlwaysHeld,
		HighBlurRate:        rec.Flags.HighBlurRate,
		ModerateBlurRate:    rec.Flags.ModerateBlurRate,
		HighlyConsistentMT:  rec.Flags.HighlyConsistentMoveTimes,
		ModeratelyConsMT:    rec.Flags.ModeratelyConsistentMoveTimes,
		NoFastMoves:         rec.Flags.NoFastMoves,
		SuspiciousHoldAlert: rec.Flags.SuspiciousHoldAlert,
		MtAvg:               rec.MoveTimes.Avg,
		MtSD:                rec.MoveTimes.SD,
		MtSamples:           rec.MoveTimes.Samples,
		CpAvg:               rec.CpLosses.Avg,
		CpSD:                rec.CpLosses.SD,
		CpSamples:           rec.CpLosses.Samples,
		TCFactor:            rec.TCFactor,
		MoveTimeStreak:      rec.MoveTimeStreak,
		AssessedAt:          rec.AssessedAt.Time(),
	}
	if rec.BlurStreak != nil {
		row.BlurStreak = sql.NullInt64{Int64: int64(*rec.BlurStreak), Valid: true}
	}
	return row
}

func fromRow(row assessmentRow) assessment.Record {
	rec := assessment.Record{
		ID:       core.AssessmentID(row.ID),
		GameID:   core.GameID(row.GameID),
		PlayerID: core.PlayerID(row.PlayerID),
		Color:    game.Color(row.Color),
		Verdict:  assessment.Verdict(row.Verdict),
		Flags: assessment.Flags{
			HighAccuracy:                  row.HighAccuracy,
			AdvantageAlwaysHeld:           row.AdvantageAlwaysHeld,
			HighBlurRate:                  row.HighBlurRate,
			ModerateBlurRate:              row.ModerateBlurRate,
			HighlyConsistentMoveTimes:     row.HighlyConsistentMT,
			ModeratelyConsistentMoveTimes: row.ModeratelyConsMT,
			NoFastMoves:                   row.NoFastMoves,
			SuspiciousHoldAlert:           row.SuspiciousHoldAlert,
		},
		MoveTimes:      assessment.Summary{Avg: row.MtAvg, SD: row.MtSD, Samples: row.MtSamples},
		CpLosses:       assessment.Summary{Avg: row.CpAvg, SD: row.CpSD, Samples: row.CpSamples},
		TCFactor:       row.TCFactor,
		MoveTimeStreak: row.MoveTimeStreak,
		AssessedAt:     core.NewTimestamp(row.AssessedAt),
	}
	if row.BlurStreak.Valid {
		streak := int(row.BlurStreak.Int64)
		rec.BlurStreak = &streak
	}
	return rec
}
