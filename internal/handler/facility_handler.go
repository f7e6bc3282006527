package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"quickcourt/internal/models"
	"quickcourt/internal/service"
)

// FacilityHandler handles HTTP requests for venues and their courts.
// Browsing is public; mutations require an owner or admin session.
type FacilityHandler struct {
	facilities *service.FacilityService
	middleware *AuthMiddleware
	logger     *zap.Logger
}

func NewFacilityHandler(facilities *service.FacilityService, middleware *AuthMiddleware, logger *zap.Logger) *FacilityHandler {
	return &FacilityHandler{facilities: facilities, middleware: middleware, logger: logger}
}

func (h *FacilityHandler) RegisterRoutes(router chi.Router) {
	router.Route("/facilities", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{facilityID}", h.Get)
		r.Get("/{facilityID}/courts", h.ListCourts)

		r.Group(func(r chi.Router) {
			r.Use(h.middleware.RequireAuth)
			r.Use(h.middleware.RequireCapability(models.CapFacilitiesManage))
			r.Get("/mine", h.ListMine)
			r.Post("/", h.Create)
			r.Put("/{facilityID}", h.Update)
			r.Delete("/{facilityID}", h.Delete)
			r.Post("/{facilityID}/courts", h.AddCourt)
		})
	})

	router.Route("/courts", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.middleware.RequireAuth)
			r.Use(h.middleware.RequireCapability(models.CapFacilitiesManage))
			r.Put("/{courtID}", h.UpdateCourt)
			r.Delete("/{courtID}", h.DeleteCourt)
		})
	})
}

func (h *FacilityHandler) List(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.facilities.ListFacilities(r.Context())
	if err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to list facilities")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(facilities, "Facilities retrieved successfully"))
}

func (h *FacilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "facilityID")
	facility, err := h.facilities.GetFacility(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to get facility")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(facility, "Facility retrieved successfully"))
}

func (h *FacilityHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}
	facilities, err := h.facilities.ListOwnedFacilities(r.Context(), caller)
	if err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to list facilities")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(facilities, "Facilities retrieved successfully"))
}

func (h *FacilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}

	var facility models.Facility
	if err := json.NewDecoder(r.Body).Decode(&facility); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	if err := h.facilities.CreateFacility(r.Context(), caller, &facility); err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to create facility")
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, successResponse(facility, "Facility created successfully"))
}

func (h *FacilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}

	var facility models.Facility
	if err := json.NewDecoder(r.Body).Decode(&facility); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	facility.ID = chi.URLParam(r, "facilityID")

	if err := h.facilities.UpdateFacility(r.Context(), caller, &facility); err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to update facility")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(facility, "Facility updated successfully"))
}

func (h *FacilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}

	id := chi.URLParam(r, "facilityID")
	if err := h.facilities.DeleteFacility(r.Context(), caller, id); err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to delete facility")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(nil, "Facility deleted successfully"))
}

func (h *FacilityHandler) ListCourts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "facilityID")
	courts, err := h.facilities.ListCourts(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to list courts")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(courts, "Courts retrieved successfully"))
}

func (h *FacilityHandler) AddCourt(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}

	var court models.Court
	if err := json.NewDecoder(r.Body).Decode(&court); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	court.FacilityID = chi.URLParam(r, "facilityID")

	if err := h.facilities.AddCourt(r.Context(), caller, &court); err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to add court")
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, successResponse(court, "Court added successfully"))
}

func (h *FacilityHandler) UpdateCourt(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}

	var court models.Court
	if err := json.NewDecoder(r.Body).Decode(&court); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	court.ID = chi.URLParam(r, "courtID")

	if err := h.facilities.UpdateCourt(r.Context(), caller, &court); err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to update court")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(court, "Court updated successfully"))
}

func (h *FacilityHandler) DeleteCourt(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}

	id := chi.URLParam(r, "courtID")
	if err := h.facilities.DeleteCourt(r.Context(), caller, id); err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to delete court")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(nil, "Court deleted successfully"))
}
