package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fairplay/adapters/stats/signals"
	"fairplay/domain/assessment"
	"fairplay/domain/core"
	"fairplay/domain/game"
	"fairplay/internal"
	"fairplay/internal/analysis"
	"fairplay/internal/errors"
	"fairplay/internal/referee"
	"fairplay/ports"
)

// AssessmentService orchestrates the assessment pipeline: validate and
// extract signals, classify, assemble the record, persist it.
type AssessmentService struct {
	repo             ports.AssessmentRepository
	clock            ports.Clock
	batchConcurrency int
	logger           *internal.Logger
}

// NewAssessmentService creates an assessment service
func NewAssessmentService(repo ports.AssessmentRepository, clock ports.Clock, batchConcurrency int) *AssessmentService {
	if batchConcurrency < 1 {
		batchConcurrency = 1
	}
	return &AssessmentService{
		repo:             repo,
		clock:            clock,
		batchConcurrency: batchConcurrency,
		logger:           internal.DefaultLogger,
	}
}

// Evaluate runs the pure pipeline without persisting. Repeated calls with
// the same observation and timestamp yield identical records.
func Evaluate(obs game.Observation, now time.Time) (assessment.Record, error) {
	ex, err := signals.Extract(obs)
	if err != nil {
		return assessment.Record{}, err
	}
	verdict := referee.Resolve(ex.Flags, obs.Won())
	return analysis.Assemble(obs, ex, verdict, now), nil
}

// Assess evaluates one observation and persists the resulting record.
func (s *AssessmentService) Assess(ctx context.Context, obs game.Observation) (assessment.Record, error) {
	rec, err := Evaluate(obs, s.clock.Now())
	if err != nil {
		return assessment.Record{}, err
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return assessment.Record{}, errors.Wrapf(err, "failed to save assessment %s", rec.ID)
	}
	s.logger.Info("assessed game %s %s: %s", rec.GameID, rec.Color, rec.Verdict)
	return rec, nil
}

// GetAssessment returns the stored record for one side of a game.
func (s *AssessmentService) GetAssessment(ctx context.Context, gameID core.GameID, color game.Color) (*assessment.Record, error) {
	rec, err := s.repo.GetByGame(ctx, gameID, color)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load assessment for game %s", gameID)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: game %s %s", core.ErrAssessmentNotFound, gameID, color)
	}
	return rec, nil
}

// AssessBoth assesses the two sides of one finished game concurrently. The
// sides are independent observations, so the fan-out needs no coordination.
func (s *AssessmentService) AssessBoth(ctx context.Context, white, black game.Observation) (assessment.Record, assessment.Record, error) {
	if white.Color != game.White || black.Color != game.Black {
		return assessment.Record{}, assessment.Record{},
			core.NewMalformedObservationError("color", "sides do not match their observations")
	}

	var whiteRec, blackRec assessment.Record
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := s.Assess(ctx, white)
		if err != nil {
			return errors.Wrapf(err, "white side of game %s", white.GameID)
		}
		whiteRec = rec
		return nil
	})
	g.Go(func() error {
		rec, err := s.Assess(ctx, black)
		if err != nil {
			return errors.Wrapf(err, "black side of game %s", black.GameID)
		}
		blackRec = rec
		return nil
	})
	if err := g.Wait(); err != nil {
		return assessment.Record{}, assessment.Record{}, err
	}
	return whiteRec, blackRec, nil
}

// AssessGames assesses a batch of observations concurrently. Distinct
// (game, player) pairs are fully independent, so the fan-out needs no
// coordination beyond the concurrency cap. Results keep input order. The
// batch fails as a whole on the first error.
func (s *AssessmentService) AssessGames(ctx context.Context, observations []game.Observation) ([]assessment.Record, error) {
	runID := core.RunID(core.NewID())
	s.logger.Debug("assessment batch %s: %d observations", runID, len(observations))

	records := make([]assessment.Record, len(observations))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i, obs := range observations {
		i, obs := i, obs
		g.Go(func() error {
			rec, err := s.Assess(ctx, obs)
			if err != nil {
				return errors.Wrapf(err, "batch %s: game %s %s", runID, obs.GameID, obs.Color)
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
