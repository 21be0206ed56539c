// Package access implements the booking page access gate: a shared code
// per access level, with a lockout after repeated failures.
package access

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"fadebook/internal/domain"
	"fadebook/internal/models"
)

// Access levels granted by Verify.
const (
	LevelCustomer = "customer"
	LevelAdmin    = "admin"
)

// Service implements AccessService.
type Service struct {
	customerCode string
	adminCode    string
	maxAttempts  int
	lockDuration time.Duration
	state        domain.AccessStateRepository
	logger       zerolog.Logger
}

// NewService creates the access gate. Codes are the shared secrets for each
// level; an empty code disables that level.
func NewService(customerCode, adminCode string, state domain.AccessStateRepository, logger zerolog.Logger) *Service {
	return &Service{
		customerCode: customerCode,
		adminCode:    adminCode,
		maxAttempts:  models.AccessMaxAttempts,
		lockDuration: models.AccessLockMinutes * time.Minute,
		state:        state,
		logger:       logger.With().Str("component", "access").Logger(),
	}
}

// Verify checks the submitted code for the given client and returns the
// granted access level. After maxAttempts failures the client is locked out
// for lockDuration; a correct code resets the counter.
func (s *Service) Verify(ctx context.Context, clientID, code string) (string, error) {
	until, locked, err := s.state.LockedUntil(ctx, clientID)
	if err != nil {
		return "", fmt.Errorf("failed to check lockout: %w", err)
	}
	if locked {
		return "", &LockedError{Until: until}
	}

	level := s.matchCode(code)
	if level != "" {
		if err := s.state.ClearAttempts(ctx, clientID); err != nil {
			s.logger.Warn().Err(err).Str("client", clientID).Msg("failed to clear attempts")
		}
		s.logger.Info().Str("client", clientID).Str("level", level).Msg("access granted")
		return level, nil
	}

	attempts, err := s.state.IncrementAttempts(ctx, clientID)
	if err != nil {
		return "", fmt.Errorf("failed to count attempt: %w", err)
	}

	remaining := s.maxAttempts - attempts
	if remaining <= 0 {
		until := time.Now().Add(s.lockDuration)
		if err := s.state.Lock(ctx, clientID, until); err != nil {
			return "", fmt.Errorf("failed to set lockout: %w", err)
		}
		s.logger.Warn().Str("client", clientID).Time("until", until).Msg("client locked out")
		return "", &LockedError{Until: until}
	}

	s.logger.Info().Str("client", clientID).Int("remaining", remaining).Msg("invalid access code")
	return "", &InvalidCodeError{Remaining: remaining}
}

func (s *Service) matchCode(code string) string {
	if s.adminCode != "" && subtle.ConstantTimeCompare([]byte(code), []byte(s.adminCode)) == 1 {
		return LevelAdmin
	}
	if s.customerCode != "" && subtle.ConstantTimeCompare([]byte(code), []byte(s.customerCode)) == 1 {
		return LevelCustomer
	}
	return ""
}

// InvalidCodeError is returned for a wrong code while attempts remain.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid access code, %d attempts remaining", e.Remaining)
}

// LockedError is returned while a client is locked out.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("too many failed attempts, locked until %s", e.Until.Format(time.RFC3339))
}
