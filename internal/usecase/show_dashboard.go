package usecase

import (
	"context"

	"github.com/runoshun/taskflow/internal/domain"
)

// ShowDashboardInput contains the parameters for the dashboard.
type ShowDashboardInput struct{}

// ShowDashboardOutput contains the server statistics.
type ShowDashboardOutput struct {
	Stats      *domain.DashboardStats
	Completion int // Rounded done/total percentage
}

// ShowDashboard is the use case for reading dashboard statistics.
// The stats are fetched fresh on every call and never merged with local edits.
type ShowDashboard struct {
	stats domain.StatsGateway
}

// NewShowDashboard creates a new ShowDashboard use case.
func NewShowDashboard(stats domain.StatsGateway) *ShowDashboard {
	return &ShowDashboard{stats: stats}
}

// Execute fetches the statistics.
func (uc *ShowDashboard) Execute(ctx context.Context, _ ShowDashboardInput) (*ShowDashboardOutput, error) {
	stats, err := uc.stats.DashboardStats(ctx)
	if err != nil {
		return nil, &domain.FetchError{Resource: "dashboard", Err: err}
	}
	return &ShowDashboardOutput{
		Stats:      stats,
		Completion: stats.CompletionPercent(),
	}, nil
}
