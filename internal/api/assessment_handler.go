package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fairplay/domain/core"
	"fairplay/domain/game"
	"fairplay/internal/errors"
)

// observationRequest is the wire form of one player's observation.
type observationRequest struct {
	GameID    string            `json:"game_id"`
	PlayerID  string            `json:"player_id"`
	Color     string            `json:"color"`
	Speed     string            `json:"speed"`
	Clock     game.TimeControl  `json:"clock"`
	MoveTimes []int             `json:"move_times"` // centiseconds per own move
	Blurs     []bool            `json:"blurs"`
	Evals     []game.EvalSample `json:"evals"`
	Simul     bool              `json:"simul"`
	Winner    *string           `json:"winner,omitempty"`
	HoldAlert bool              `json:"hold_alert"`
}

func (req observationRequest) toObservation() (game.Observation, error) {
	gameID, err := core.ParseGameID(req.GameID)
	if err != nil {
		return game.Observation{}, err
	}
	playerID, err := core.ParsePlayerID(req.PlayerID)
	if err != nil {
		return game.Observation{}, err
	}
	color, err := game.ParseColor(req.Color)
	if err != nil {
		return game.Observation{}, err
	}
	speed, err := game.ParseSpeedTier(req.Speed)
	if err != nil {
		return game.Observation{}, err
	}

	obs := game.Observation{
		GameID:    gameID,
		PlayerID:  playerID,
		Color:     color,
		Speed:     speed,
		Clock:     req.Clock,
		MoveTimes: req.MoveTimes,
		Blurs:     req.Blurs,
		Evals:     req.Evals,
		Simul:     req.Simul,
		HoldAlert: req.HoldAlert,
	}
	if req.Winner != nil {
		winner, err := game.ParseColor(*req.Winner)
		if err != nil {
			return game.Observation{}, err
		}
		obs.Winner = &winner
	}
	return obs, nil
}

func (s *Server) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req observationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.InvalidInput("invalid request body"))
		return
	}

	obs, err := req.toObservation()
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.InvalidInput(err.Error()))
		return
	}

	rec, err := s.service.Assess(r.Context(), obs)
	if err != nil {
		if core.IsMalformedObservation(err) {
			writeError(w, http.StatusBadRequest, errors.Wrap(errors.InvalidInput(err.Error()), "observation rejected"))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	gameID, err := core.ParseGameID(chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.InvalidInput(err.Error()))
		return
	}
	color, err := game.ParseColor(chi.URLParam(r, "color"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.InvalidInput(err.Error()))
		return
	}

	rec, err := s.service.GetAssessment(r.Context(), gameID, color)
	if err != nil {
		if core.IsNotFoundError(err) {
			writeError(w, http.StatusNotFound, errors.NotFound("assessment"))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListByPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := core.ParsePlayerID(chi.URLParam(r, "playerID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.InvalidInput(err.Error()))
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, errors.InvalidInput("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	records, err := s.repo.ListByPlayer(r.Context(), playerID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
