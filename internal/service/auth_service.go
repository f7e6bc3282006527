package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"quickcourt/internal/events"
	"quickcourt/internal/hashing"
	"quickcourt/internal/models"
	"quickcourt/internal/otp"
	"quickcourt/internal/repository/postgres"
	"quickcourt/internal/token"
	"quickcourt/internal/util"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found with this email")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrWeakPassword       = errors.New("password must be at least 8 characters long")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrTooManyRequests    = errors.New("too many OTP requests, try again later")
	ErrOTPDispatchFailed  = errors.New("failed to send OTP")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// RequestLimiter throttles OTP issuance per email.
type RequestLimiter interface {
	AllowOTPRequest(ctx context.Context, email string) (bool, error)
}

// AuthService drives the two login protocols (password and email OTP) and
// resolves session tokens back to user identities for the CRUD services.
type AuthService struct {
	users   postgres.UserRepository
	otp     *otp.Manager
	tokens  *token.Service
	hasher  *hashing.Hasher
	limiter RequestLimiter
	events  events.Publisher
	logger  *zap.Logger
}

func NewAuthService(
	users postgres.UserRepository,
	otpManager *otp.Manager,
	tokens *token.Service,
	hasher *hashing.Hasher,
	limiter RequestLimiter,
	publisher events.Publisher,
	logger *zap.Logger,
) *AuthService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = util.Get()
	}
	return &AuthService{
		users:   users,
		otp:     otpManager,
		tokens:  tokens,
		hasher:  hasher,
		limiter: limiter,
		events:  publisher,
		logger:  logger,
	}
}

// Tokens exposes the token service for transport-layer concerns (cookie
// max-age must track token TTL).
func (s *AuthService) Tokens() *token.Service {
	return s.tokens
}

// SignUpRequest carries the fields required to create an account.
type SignUpRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

// SignUp creates a new account with a bcrypt-hashed password.
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*models.User, error) {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" || req.PhoneNumber == "" {
		return nil, fmt.Errorf("%w: all required fields must be provided", ErrInvalidInput)
	}
	if !util.IsLikelyEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:   util.SanitizeInput(req.FirstName),
		LastName:    util.SanitizeInput(req.LastName),
		Email:       req.Email,
		Password:    hash,
		PhoneNumber: util.SanitizeInput(req.PhoneNumber),
		Role:        models.ParseUserRole(req.Role),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.NewAuthEvent(events.EventSignup, user.Email, string(user.Role)))
	s.logger.Info("user created", util.String("email", user.Email), util.String("role", string(user.Role)))
	return user, nil
}

// PasswordLogin validates email/password credentials and issues a session
// token. Unknown email and wrong password are deliberately indistinguishable
// to the caller.
func (s *AuthService) PasswordLogin(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	if !util.IsLikelyEmail(email) {
		return "", nil, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, postgres.ErrNotFound) {
		s.events.Publish(ctx, events.NewAuthEvent(events.EventLoginFailure, email, "unknown email"))
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !s.hasher.VerifyPassword(user.Password, password) {
		s.events.Publish(ctx, events.NewAuthEvent(events.EventLoginFailure, email, "bad password"))
		s.logger.Warn("invalid credentials", util.String("email", email))
		return "", nil, ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	s.events.Publish(ctx, events.NewAuthEvent(events.EventLoginSuccess, email, "password"))
	s.logger.Info("login successful", util.String("email", email))
	return tok, user, nil
}

// RequestOTP starts the passwordless flow: the email must belong to an
// existing account, then a code is issued and dispatched. Unlike password
// login this discloses whether the account exists, matching the observed
// behavior of the password-reset style flow.
func (s *AuthService) RequestOTP(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	if s.limiter != nil {
		allowed, err := s.limiter.AllowOTPRequest(ctx, email)
		if err != nil {
			// Throttling is advisory; an unreachable limiter must not
			// take down the login path.
			s.logger.Error("otp request limiter unavailable", util.ErrorField(err))
		} else if !allowed {
			return ErrTooManyRequests
		}
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !exists {
		s.logger.Warn("otp requested for unknown email", util.String("email", email))
		return ErrUserNotFound
	}

	res, err := s.otp.Issue(ctx, email)
	if err != nil {
		return err
	}
	s.events.Publish(ctx, events.NewAuthEvent(events.EventOTPIssued, email, ""))
	if !res.Delivered {
		return ErrOTPDispatchFailed
	}
	return nil
}

// VerifyOTPLogin completes the passwordless flow: a correct, unexpired code
// consumes the record, and a session token is issued exactly as in the
// password flow.
func (s *AuthService) VerifyOTPLogin(ctx context.Context, email, code string) (string, *models.User, error) {
	if email == "" {
		return "", nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if code == "" {
		return "", nil, fmt.Errorf("%w: OTP is required", ErrInvalidInput)
	}

	if !s.otp.Verify(email, code) {
		s.events.Publish(ctx, events.NewAuthEvent(events.EventOTPRejected, email, ""))
		return "", nil, ErrInvalidOTP
	}

	// The code was valid, but the account may have vanished since it was
	// requested.
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, postgres.ErrNotFound) {
		s.logger.Warn("otp verified but user no longer exists", util.String("email", email))
		return "", nil, ErrInvalidOTP
	}
	if err != nil {
		return "", nil, err
	}

	tok, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	s.events.Publish(ctx, events.NewAuthEvent(events.EventOTPVerified, email, ""))
	s.events.Publish(ctx, events.NewAuthEvent(events.EventLoginSuccess, email, "otp"))
	s.logger.Info("otp login successful", util.String("email", email))
	return tok, user, nil
}

// ResolveCaller maps a presented session token back to the user it was
// issued for. Existence is re-checked here, unlike plain token validation.
func (s *AuthService) ResolveCaller(ctx context.Context, tokenStr string) (*models.User, error) {
	if tokenStr == "" {
		return nil, ErrInvalidSession
	}
	if !s.tokens.ValidateStructure(tokenStr) || s.tokens.IsExpired(tokenStr) {
		s.events.Publish(ctx, events.NewAuthEvent(events.EventTokenRejected, "", ""))
		return nil, ErrInvalidSession
	}

	email, err := s.tokens.ExtractSubject(tokenStr)
	if err != nil {
		return nil, ErrInvalidSession
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns every account; callers must hold the users:read
// capability.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}
