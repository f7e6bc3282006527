package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"quickcourt/internal/models"
	"quickcourt/internal/service"
)

// BookingHandler handles HTTP requests for court bookings. Every route
// requires an authenticated session.
type BookingHandler struct {
	bookings   *service.BookingService
	middleware *AuthMiddleware
	logger     *zap.Logger
}

func NewBookingHandler(bookings *service.BookingService, middleware *AuthMiddleware, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, middleware: middleware, logger: logger}
}

func (h *BookingHandler) RegisterRoutes(router chi.Router) {
	router.Route("/bookings", func(r chi.Router) {
		r.Use(h.middleware.RequireAuth)
		r.Use(h.middleware.RequireCapability(models.CapBookingsManage))
		r.Post("/", h.Create)
		r.Get("/", h.ListMine)
		r.Get("/{bookingID}", h.Get)
		r.Post("/{bookingID}/cancel", h.Cancel)
	})
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}

	var booking models.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	if err := h.bookings.CreateBooking(r.Context(), caller, &booking); err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to create booking")
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, successResponse(booking, "Booking created successfully"))
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}

	bookings, err := h.bookings.ListMyBookings(r.Context(), caller)
	if err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to list bookings")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(bookings, "Bookings retrieved successfully"))
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}

	id := chi.URLParam(r, "bookingID")
	booking, err := h.bookings.GetBooking(r.Context(), caller, id)
	if err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to get booking")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(booking, "Booking retrieved successfully"))
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}

	id := chi.URLParam(r, "bookingID")
	if err := h.bookings.CancelBooking(r.Context(), caller, id); err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to cancel booking")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(nil, "Booking cancelled successfully"))
}
