package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/runoshun/taskflow/internal/testutil"
	"github.com/runoshun/taskflow/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHealth struct {
	err error
}

func (s stubHealth) Health(context.Context) error { return s.err }

func TestCheckHealth_Execute(t *testing.T) {
	clock := &testutil.MockClock{NowTime: time.Date(2026, 1, 8, 12, 0, 0, 0, time.UTC)}

	out, err := usecase.NewCheckHealth(stubHealth{}, clock).Execute(context.Background(), usecase.CheckHealthInput{})

	require.NoError(t, err)
	assert.Zero(t, out.Latency)
}

func TestCheckHealth_Execute_Down(t *testing.T) {
	cause := errors.New("connection refused")

	_, err := usecase.NewCheckHealth(stubHealth{err: cause}, &testutil.MockClock{}).Execute(context.Background(), usecase.CheckHealthInput{})

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "api unreachable")
}
