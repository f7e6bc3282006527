package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"quickcourt/internal/models"
	"quickcourt/internal/service"
)

// ReviewHandler handles HTTP requests for facility reviews. Reading is
// public; posting requires a session.
type ReviewHandler struct {
	reviews    *service.ReviewService
	middleware *AuthMiddleware
	logger     *zap.Logger
}

func NewReviewHandler(reviews *service.ReviewService, middleware *AuthMiddleware, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, middleware: middleware, logger: logger}
}

func (h *ReviewHandler) RegisterRoutes(router chi.Router) {
	router.Route("/facilities/{facilityID}/reviews", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(h.middleware.RequireAuth)
			r.Use(h.middleware.RequireCapability(models.CapReviewsManage))
			r.Post("/", h.Create)
		})
	})
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "facilityID")
	reviews, err := h.reviews.ListReviews(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to list reviews")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(reviews, "Reviews retrieved successfully"))
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}

	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	review.FacilityID = chi.URLParam(r, "facilityID")

	if err := h.reviews.CreateReview(r.Context(), caller, &review); err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to create review")
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, successResponse(review, "Review created successfully"))
}
