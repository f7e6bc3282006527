package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"quickcourt/internal/models"
	"quickcourt/internal/service"
	"quickcourt/internal/util"
)

const sessionCookieName = "JwtToken"

// AuthHandler handles HTTP requests for signup, both login flows and
// session inspection.
type AuthHandler struct {
	auth          *service.AuthService
	middleware    *AuthMiddleware
	secureCookies bool
	logger        *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, middleware *AuthMiddleware, secureCookies bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		middleware:    middleware,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// RegisterRoutes registers all auth routes
func (h *AuthHandler) RegisterRoutes(router chi.Router) {
	router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.SignUp)
		r.Post("/login", h.Login)
		r.Post("/otp/send", h.SendOTP)
		r.Post("/otp/verify", h.VerifyOTP)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.middleware.RequireAuth)
			r.Get("/validate", h.Validate)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(h.middleware.RequireAuth)
		r.With(h.middleware.RequireCapability(models.CapUsersRead)).Get("/users", h.ListUsers)
	})
}

// SignUp handles account creation
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req service.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	user, err := h.auth.SignUp(r.Context(), req)
	if err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to create account")
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, successResponse(user, "Account created successfully"))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles the password flow. On success the session token is set as
// an HttpOnly cookie and echoed in the body for non-browser clients.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	tok, user, err := h.auth.PasswordLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Login failed")
		return
	}

	h.setSessionCookie(w, tok)
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(map[string]interface{}{
		"user":  user,
		"token": tok,
	}, "Login successful"))
}

type otpSendRequest struct {
	Email string `json:"email"`
}

// SendOTP starts the passwordless flow
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req otpSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	if err := h.auth.RequestOTP(r.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrOTPDispatchFailed) {
			respondWithError(w, h.logger, http.StatusInternalServerError, err, "Failed to send OTP")
			return
		}
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to send OTP")
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, successResponse(nil, "OTP sent successfully"))
}

type otpVerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTP completes the passwordless flow
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	tok, user, err := h.auth.VerifyOTPLogin(r.Context(), req.Email, req.OTP)
	if err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "OTP verification failed")
		return
	}

	h.setSessionCookie(w, tok)
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(map[string]interface{}{
		"user":  user,
		"token": tok,
	}, "Login successful"))
}

// Logout clears the session cookie. Tokens stay valid until expiry, there
// is no server-side revocation list.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(nil, "Logged out"))
}

// Validate returns the user bound to the presented session token
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	user, ok := CallerFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(user, "Session is valid"))
}

// ListUsers returns every account; admin only
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		respondWithError(w, h.logger, statusFromError(err), err, "Failed to list users")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, successResponse(users, "Users retrieved successfully"))
	h.logger.Debug("Users listed via HTTP", util.Int("count", len(users)))
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.auth.Tokens().TTL() / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
