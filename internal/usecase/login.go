package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/taskflow/internal/domain"
)

// LoginInput contains the parameters for signing in.
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput contains the result of signing in.
type LoginOutput struct {
	Session *domain.Session
}

// Login is the use case for signing in with email and password.
type Login struct {
	auth     domain.AuthGateway
	sessions domain.SessionStore
	logger   domain.Logger
}

// NewLogin creates a new Login use case.
func NewLogin(auth domain.AuthGateway, sessions domain.SessionStore, logger domain.Logger) *Login {
	return &Login{
		auth:     auth,
		sessions: sessions,
		logger:   logger,
	}
}

// Execute validates the credentials, signs in and persists the session.
// Rejected credentials surface as *domain.AuthError.
func (uc *Login) Execute(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	creds := domain.Credentials{
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	session, err := uc.auth.Login(ctx, creds)
	if err != nil {
		uc.logger.Warn("", "auth", "login failed for "+creds.Email)
		return nil, err
	}

	if err := uc.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	uc.logger.Info("", "auth", "logged in as "+session.User.Email)

	return &LoginOutput{Session: session}, nil
}
