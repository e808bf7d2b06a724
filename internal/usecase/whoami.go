package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskflow/internal/domain"
)

// WhoAmIInput contains the parameters for WhoAmI.
type WhoAmIInput struct{}

// WhoAmIOutput contains the restored session.
type WhoAmIOutput struct {
	Session *domain.Session
}

// WhoAmI is the use case for reading the stored session.
type WhoAmI struct {
	sessions domain.SessionStore
}

// NewWhoAmI creates a new WhoAmI use case.
func NewWhoAmI(sessions domain.SessionStore) *WhoAmI {
	return &WhoAmI{sessions: sessions}
}

// Execute returns the stored session or domain.ErrNotLoggedIn.
func (uc *WhoAmI) Execute(_ context.Context, _ WhoAmIInput) (*WhoAmIOutput, error) {
	session, err := uc.sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !session.IsValid() {
		return nil, domain.ErrNotLoggedIn
	}
	return &WhoAmIOutput{Session: session}, nil
}
