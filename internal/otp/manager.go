package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"quickcourt/internal/util"
)

const (
	defaultLength      = 6
	defaultExpiry      = 5 * time.Minute
	defaultMaxAttempts = 3
	defaultShards      = 16
)

// Sender delivers a message out-of-band, normally by email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config tunes code shape and lifetime.
type Config struct {
	Length      int
	Expiry      time.Duration
	MaxAttempts int
	Shards      int
}

// DispatchResult reports the two independent outcomes of issuing a code:
// whether the message went out, and whether the record is live regardless.
type DispatchResult struct {
	Delivered      bool
	RecordRetained bool
}

// Manager issues and verifies short-lived numeric passcodes keyed by email.
// At most one record exists per email; issuing again overwrites. Safe for
// concurrent use.
type Manager struct {
	cfg    Config
	store  *shardedStore
	sender Sender
	logger *zap.Logger

	// Now and Generate are seams for tests; NewManager sets real defaults.
	Now      func() time.Time
	Generate func(length int) (string, error)
}

func NewManager(cfg Config, sender Sender, logger *zap.Logger) *Manager {
	if cfg.Length <= 0 {
		cfg.Length = defaultLength
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = defaultExpiry
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Shards <= 0 {
		cfg.Shards = defaultShards
	}
	if logger == nil {
		logger = util.Get()
	}
	return &Manager{
		cfg:      cfg,
		store:    newShardedStore(cfg.Shards),
		sender:   sender,
		logger:   logger,
		Now:      time.Now,
		Generate: GenerateCode,
	}
}

// GenerateCode produces a cryptographically random decimal string of the
// given length. Leading zeros are allowed.
func GenerateCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate otp digit: %w", err)
		}
		b.WriteString(n.String())
	}
	return b.String(), nil
}

// Issue generates a fresh code for email, stores it, then attempts delivery.
// The record is written before dispatch, so a failed or slow send never
// leaves a half-issued code: the returned result reports delivery and
// retention independently. On dispatch failure the code is logged so an
// operator can recover it.
func (m *Manager) Issue(ctx context.Context, email string) (DispatchResult, error) {
	code, err := m.Generate(m.cfg.Length)
	if err != nil {
		return DispatchResult{}, err
	}

	expiresAt := m.Now().Add(m.cfg.Expiry)
	m.store.put(email, record{code: code, expiresAt: expiresAt})

	subject := "QuickCourt - OTP Verification"
	body := fmt.Sprintf(
		"Hello!\n\nYour OTP verification code is: %s\n\nThis code will expire in %d minutes.\n\nIf you didn't request this code, please ignore this email.\n\nBest regards,\nQuickCourt Team\n",
		code, int(m.cfg.Expiry.Minutes()),
	)

	if err := m.sender.Send(ctx, email, subject, body); err != nil {
		m.logger.Warn("otp dispatch failed, record retained",
			util.String("email", email),
			util.ErrorField(err))
		m.logger.Info("otp generated with failed delivery",
			util.String("email", email),
			util.String("code", code),
			zap.Time("expires_at", expiresAt))
		return DispatchResult{Delivered: false, RecordRetained: true}, nil
	}

	m.logger.Info("otp issued", util.String("email", email), zap.Time("expires_at", expiresAt))
	return DispatchResult{Delivered: true, RecordRetained: true}, nil
}

// Verify checks a submitted code. It fails closed: no record, expired, or
// attempts exhausted all return false (discarding the record in the latter
// two cases). A match consumes the record; a mismatch burns one attempt and
// keeps it.
func (m *Manager) Verify(email, submitted string) bool {
	ok := false
	m.store.update(email, func(r *record) bool {
		if r == nil {
			return false
		}
		if m.Now().After(r.expiresAt) {
			m.logger.Warn("otp expired", util.String("email", email))
			return false
		}
		if r.attempts >= m.cfg.MaxAttempts {
			m.logger.Warn("otp attempts exhausted", util.String("email", email))
			return false
		}
		r.attempts++
		if r.code == submitted {
			ok = true
			return false
		}
		m.logger.Warn("otp mismatch",
			util.String("email", email),
			util.Int("attempts", r.attempts))
		return true
	})
	return ok
}

// ActiveRecords reports how many codes are currently live.
func (m *Manager) ActiveRecords() int {
	return m.store.active()
}
