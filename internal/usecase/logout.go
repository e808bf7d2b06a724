package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskflow/internal/domain"
)

// LogoutInput contains the parameters for signing out.
type LogoutInput struct{}

// LogoutOutput contains the result of signing out.
type LogoutOutput struct {
	WasLoggedIn bool
}

// Logout is the use case for destroying the stored session.
type Logout struct {
	sessions domain.SessionStore
	logger   domain.Logger
}

// NewLogout creates a new Logout use case.
func NewLogout(sessions domain.SessionStore, logger domain.Logger) *Logout {
	return &Logout{
		sessions: sessions,
		logger:   logger,
	}
}

// Execute clears the stored session. The theme is kept.
func (uc *Logout) Execute(_ context.Context, _ LogoutInput) (*LogoutOutput, error) {
	session, err := uc.sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if err := uc.sessions.Clear(); err != nil {
		return nil, fmt.Errorf("clear session: %w", err)
	}
	if session.IsValid() {
		uc.logger.Info("", "auth", "logged out "+session.User.Email)
	}
	return &LogoutOutput{WasLoggedIn: session.IsValid()}, nil
}
