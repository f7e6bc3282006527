package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"quickcourt/internal/models"
	"quickcourt/internal/service"
)

// MatchHandler handles HTTP requests for open matches. Browsing is public;
// creating, joining and cancelling require a session.
type MatchHandler struct {
	matches    *service.MatchService
	middleware *AuthMiddleware
	logger     *zap.Logger
}

func NewMatchHandler(matches *service.MatchService, middleware *AuthMiddleware, logger *zap.Logger) *MatchHandler {
	return &MatchHandler{matches: matches, middleware: middleware, logger: logger}
}

func (h *MatchHandler) RegisterRoutes(router chi.Router) {
	router.Route("/matches", func(r chi.Router) {
		r.Get("/", h.ListOpen)

		r.Group(func(r chi.Router) {
			r.Use(h.middleware.RequireAuth)
			r.Use(h.middleware.RequireCapability(models.CapMatchesManage))
			r.Post("/", h.Create)
			r.Get("/mine", h.ListMine)
			r.Post("/{matchID}/join", h.Join)
			r.Post("/{matchID}/cancel", h.Cancel)
		})
	})
}

func (h *MatchHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matches.ListOpenMatches(r.Context())
	if err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to list matches")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(matches, "Matches retrieved successfully"))
}

func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}

	var match models.Match
	if err := json.NewDecoder(r.Body).Decode(&match); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	if err := h.matches.CreateMatch(r.Context(), caller, &match); err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to create match")
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, successResponse(match, "Match created successfully"))
}

func (h *MatchHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}

	matches, err := h.matches.ListMyMatches(r.Context(), caller)
	if err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to list matches")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(matches, "Matches retrieved successfully"))
}

func (h *MatchHandler) Join(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}

	id := chi.URLParam(r, "matchID")
	match, err := h.matches.JoinMatch(r.Context(), caller, id)
	if err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to join match")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(match, "Joined match successfully"))
}

func (h *MatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}

	id := chi.URLParam(r, "matchID")
	if err := h.matches.CancelMatch(r.Context(), caller, id); err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to cancel match")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(nil, "Match cancelled successfully"))
}
