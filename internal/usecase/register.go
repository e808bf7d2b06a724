package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/taskflow/internal/domain"
)

// RegisterInput contains the parameters for creating an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterOutput contains the result of creating an account.
type RegisterOutput struct {
	Session *domain.Session
}

// Register is the use case for creating an account and signing in.
type Register struct {
	auth     domain.AuthGateway
	sessions domain.SessionStore
	logger   domain.Logger
}

// NewRegister creates a new Register use case.
func NewRegister(auth domain.AuthGateway, sessions domain.SessionStore, logger domain.Logger) *Register {
	return &Register{
		auth:     auth,
		sessions: sessions,
		logger:   logger,
	}
}

// Execute validates the input, registers and persists the session.
func (uc *Register) Execute(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	reg := domain.Registration{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	session, err := uc.auth.Register(ctx, reg)
	if err != nil {
		return nil, err
	}

	if err := uc.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	uc.logger.Info("", "auth", "registered "+session.User.Email)

	return &RegisterOutput{Session: session}, nil
}
