package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quickcourt/internal/hashing"
	"quickcourt/internal/models"
	"quickcourt/internal/otp"
	"quickcourt/internal/repository/postgres"
	"quickcourt/internal/service"
	"quickcourt/internal/token"
)

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*models.User)}
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memoryUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[email]
	return ok, nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	r.users[user.Email] = user
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Email] = user
	return nil
}

func (r *memoryUserRepo) List(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type memorySender struct {
	mu   sync.Mutex
	sent int
}

func (s *memorySender) Send(context.Context, string, string, string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent++
	return nil
}

type httpFixture struct {
	router chi.Router
	users  *memoryUserRepo
	otp    *otp.Manager
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()
	logger := zap.NewNop()
	users := newMemoryUserRepo()
	manager := otp.NewManager(otp.Config{}, &memorySender{}, logger)
	tokens := token.NewService("handler-test-secret-with-entropy!!", 0)
	auth := service.NewAuthService(users, manager, tokens, hashing.NewHasher(4), nil, nil, logger)

	mw := NewAuthMiddleware(auth, logger)
	authHandler := NewAuthHandler(auth, mw, false, logger)

	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
	})
	return &httpFixture{router: router, users: users, otp: manager}
}

func (f *httpFixture) do(t *testing.T, method, path string, body interface{}, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *httpFixture) signUp(t *testing.T, email, password, role string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"firstName":   "Test",
		"lastName":    "User",
		"email":       email,
		"password":    password,
		"phoneNumber": "1234567890",
		"role":        role,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	return nil
}

func TestSignUpEndpoint(t *testing.T) {
	f := newHTTPFixture(t)

	t.Run("creates the account and hides the password hash", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/auth/signup", map[string]string{
			"firstName":   "Asha",
			"lastName":    "Rao",
			"email":       "asha@example.com",
			"password":    "password123",
			"phoneNumber": "9876543210",
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/auth/signup", map[string]string{
			"firstName":   "Asha",
			"lastName":    "Rao",
			"email":       "asha@example.com",
			"password":    "password123",
			"phoneNumber": "9876543210",
		}, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	f := newHTTPFixture(t)
	f.signUp(t, "asha@example.com", "password123", "")

	t.Run("success sets the session cookie", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "asha@example.com",
			"password": "password123",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		cookie := sessionCookie(rec)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, "/", cookie.Path)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Equal(t, 7*24*3600, cookie.MaxAge)
		assert.NotEmpty(t, cookie.Value)
	})

	t.Run("wrong password and unknown email both return 401", func(t *testing.T) {
		wrong := f.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "asha@example.com",
			"password": "nope12345",
		}, nil)
		unknown := f.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "password123",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, decodeResponse(t, wrong).Error, decodeResponse(t, unknown).Error)
	})
}

func TestOTPEndpoints(t *testing.T) {
	f := newHTTPFixture(t)
	f.signUp(t, "asha@example.com", "password123", "")
	f.otp.Generate = func(int) (string, error) { return "123456", nil }

	t.Run("unknown email is disclosed", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/auth/otp/send", map[string]string{
			"email": "nobody@example.com",
		}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("send then verify logs in and consumes the code", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/auth/otp/send", map[string]string{
			"email": "asha@example.com",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		verify := f.do(t, http.MethodPost, "/api/v1/auth/otp/verify", map[string]string{
			"email": "asha@example.com",
			"otp":   "123456",
		}, nil)
		require.Equal(t, http.StatusOK, verify.Code)
		assert.NotNil(t, sessionCookie(verify))

		replay := f.do(t, http.MethodPost, "/api/v1/auth/otp/verify", map[string]string{
			"email": "asha@example.com",
			"otp":   "123456",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, replay.Code)
	})
}

func TestValidateEndpoint(t *testing.T) {
	f := newHTTPFixture(t)
	f.signUp(t, "asha@example.com", "password123", "")

	login := f.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "asha@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)
	cookie := sessionCookie(login)
	require.NotNil(t, cookie)

	t.Run("cookie session", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/auth/validate", nil, func(r *http.Request) {
			r.AddCookie(cookie)
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bearer session", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/auth/validate", nil, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+cookie.Value)
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no session", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/auth/validate", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/auth/validate", nil, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer not.a.token")
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListUsersEndpoint(t *testing.T) {
	f := newHTTPFixture(t)
	f.signUp(t, "user@example.com", "password123", "")
	f.signUp(t, "admin@example.com", "password123", "ADMIN")

	loginAs := func(t *testing.T, email string) *http.Cookie {
		rec := f.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    email,
			"password": "password123",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		cookie := sessionCookie(rec)
		require.NotNil(t, cookie)
		return cookie
	}

	t.Run("regular user is forbidden", func(t *testing.T) {
		cookie := loginAs(t, "user@example.com")
		rec := f.do(t, http.MethodGet, "/api/v1/users", nil, func(r *http.Request) {
			r.AddCookie(cookie)
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin sees all accounts", func(t *testing.T) {
		cookie := loginAs(t, "admin@example.com")
		rec := f.do(t, http.MethodGet, "/api/v1/users", nil, func(r *http.Request) {
			r.AddCookie(cookie)
		})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		data, ok := resp.Data.([]interface{})
		require.True(t, ok)
		assert.Len(t, data, 2)
	})
}
