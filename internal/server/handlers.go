package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rating-tracker/internal/common/errors"
	"rating-tracker/internal/models"
	"rating-tracker/internal/users"
)

type cronResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// handleCron triggers a full batch refresh. The scheduler authenticates
// with a bearer secret; the acknowledgement is sent once the batch loop
// finishes regardless of how many individual users failed (details live in
// the logs).
func (s *Server) handleCron(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+s.cronSecret {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "UNAUTHORIZED",
			Message: "Invalid or missing bearer token",
		})
		return
	}

	if err := s.refresher.RefreshAll(r.Context()); err != nil {
		s.logger.Error("Batch refresh did not run to completion", map[string]interface{}{
			"error": err.Error(),
		})
	}

	writeJSON(w, http.StatusOK, cronResponse{OK: true, Message: "Users rating updated"})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var input users.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, errors.NewValidationFailedError("request body is not valid JSON"))
		return
	}

	user, isUpdate, err := s.users.CreateOrUpdate(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if isUpdate {
		status = http.StatusOK
	}
	writeJSON(w, status, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.leaderboard.Top(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if board == nil {
		board = []models.User{} // never encode null
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(s.pingers))
	for name, p := range s.pingers {
		if err := p.Ping(ctx); err != nil {
			components[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "up"
	}

	writeJSON(w, status, map[string]interface{}{
		"status":     http.StatusText(status),
		"components": components,
	})
}
