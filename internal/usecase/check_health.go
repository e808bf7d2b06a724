package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
)

// CheckHealthInput contains the parameters for CheckHealth.
type CheckHealthInput struct{}

// CheckHealthOutput contains the probe result.
type CheckHealthOutput struct {
	Latency time.Duration
}

// CheckHealth is the use case for probing the API.
type CheckHealth struct {
	api   domain.HealthChecker
	clock domain.Clock
}

// NewCheckHealth creates a new CheckHealth use case.
func NewCheckHealth(api domain.HealthChecker, clock domain.Clock) *CheckHealth {
	return &CheckHealth{api: api, clock: clock}
}

// Execute calls the health endpoint and measures the round trip.
func (uc *CheckHealth) Execute(ctx context.Context, _ CheckHealthInput) (*CheckHealthOutput, error) {
	start := uc.clock.Now()
	if err := uc.api.Health(ctx); err != nil {
		return nil, fmt.Errorf("api unreachable: %w", err)
	}
	return &CheckHealthOutput{Latency: uc.clock.Now().Sub(start)}, nil
}
