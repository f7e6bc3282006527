package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 7 * 24 * time.Hour

var (
	ErrMalformedToken = errors.New("malformed or unsigned token")
	ErrMissingSubject = errors.New("token has no subject claim")
)

// Service issues and validates stateless HS256 session tokens. Validity is
// fully determined by the signature and the embedded expiry; nothing is
// persisted, so tokens cannot be revoked before they expire.
type Service struct {
	secret []byte
	ttl    time.Duration

	// Now is a seam for tests; NewService sets it to time.Now.
	Now func() time.Time
}

func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		Now:    time.Now,
	}
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token carrying subject=email, issued-at and expiry claims.
func (s *Service) Issue(email string) (string, error) {
	return s.IssueWithClaims(email, nil)
}

// IssueWithClaims signs a token with the standard claims plus any extras.
// Extra claims cannot override sub, iat or exp.
func (s *Service) IssueWithClaims(email string, extra map[string]any) (string, error) {
	now := s.Now()
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = email
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(s.ttl).Unix()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// parse verifies the signature and returns the claims. Expiry is
// deliberately not checked here so that structural validity and expiry stay
// separate questions.
func (s *Service) parse(tokenStr string) (jwt.MapClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := jwt.MapClaims{}
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	if !tok.Valid {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// ValidateStructure reports whether the token parses and its signature
// verifies. It does not check expiry.
func (s *Service) ValidateStructure(tokenStr string) bool {
	_, err := s.parse(tokenStr)
	return err == nil
}

// ExtractSubject returns the subject claim of a signature-valid token.
func (s *Service) ExtractSubject(tokenStr string) (string, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return "", err
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrMissingSubject
	}
	return sub, nil
}

// IsExpired reports whether a signature-valid token has passed its expiry.
// Structurally invalid tokens count as expired.
func (s *Service) IsExpired(tokenStr string) bool {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return s.Now().After(exp.Time)
}

// ValidateForUser reports whether the token is signature-valid, unexpired
// and bound to the expected email.
func (s *Service) ValidateForUser(tokenStr, expectedEmail string) bool {
	sub, err := s.ExtractSubject(tokenStr)
	if err != nil {
		return false
	}
	return sub == expectedEmail && !s.IsExpired(tokenStr)
}
