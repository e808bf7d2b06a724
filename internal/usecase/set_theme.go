package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskflow/internal/domain"
)

// SetThemeInput contains the parameters for SetTheme.
type SetThemeInput struct {
	Theme domain.Theme // Empty toggles between dark and light
}

// SetThemeOutput contains the theme now stored.
type SetThemeOutput struct {
	Theme domain.Theme
}

// SetTheme is the use case for changing the persisted UI theme.
type SetTheme struct {
	sessions domain.SessionStore
}

// NewSetTheme creates a new SetTheme use case.
func NewSetTheme(sessions domain.SessionStore) *SetTheme {
	return &SetTheme{sessions: sessions}
}

// Execute stores the theme, or toggles it when none is given.
func (uc *SetTheme) Execute(_ context.Context, in SetThemeInput) (*SetThemeOutput, error) {
	theme := in.Theme
	if theme == "" {
		current, err := uc.sessions.Theme()
		if err != nil {
			return nil, fmt.Errorf("load theme: %w", err)
		}
		theme = domain.ThemeLight
		if current == domain.ThemeLight {
			theme = domain.ThemeDark
		}
	}
	if !theme.IsValid() {
		return nil, &domain.ValidationError{Field: "theme", Message: "must be dark or light"}
	}
	if err := uc.sessions.SetTheme(theme); err != nil {
		return nil, fmt.Errorf("save theme: %w", err)
	}
	return &SetThemeOutput{Theme: theme}, nil
}
