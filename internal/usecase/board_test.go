package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/testutil"
)

func newTestBoard(t *testing.T) (*Board, *testutil.MockGateway) {
	t.Helper()
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)
	return NewBoard(c), gw
}

func TestBoard_CycleOrder(t *testing.T) {
	b, _ := newTestBoard(t)
	ctx := context.Background()

	want := []domain.Status{domain.StatusInProgress, domain.StatusDone, domain.StatusTodo}
	for _, st := range want {
		task, err := b.Cycle(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, st, task.Status)
		assert.Equal(t, st, b.Collection().Get("1").Status)
	}
}

func TestBoard_CycleUnknownTask(t *testing.T) {
	b, gw := newTestBoard(t)

	_, err := b.Cycle(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Zero(t, gw.CallCounts().UpdateTask)
}

func TestBoard_CycleRollsBackOnFailure(t *testing.T) {
	b, gw := newTestBoard(t)
	gw.UpdateErr = errServer

	p, err := b.StartCycle("2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTodo, b.Collection().Get("2").Status, "optimistic")

	_, err = p.Commit(context.Background())
	assert.ErrorIs(t, err, domain.ErrMutation)
	assert.Equal(t, domain.StatusDone, b.Collection().Get("2").Status)
}

func TestBoard_DropMoves(t *testing.T) {
	b, gw := newTestBoard(t)
	require.NoError(t, b.BeginDrag("1"))
	assert.Equal(t, "1", b.Dragging())

	outcome, task, err := b.Drop(context.Background(), domain.StatusDone)

	require.NoError(t, err)
	assert.Equal(t, DropMoved, outcome)
	assert.Equal(t, domain.StatusDone, task.Status)
	assert.Equal(t, domain.StatusDone, gw.Task("1").Status)
	assert.Empty(t, b.Dragging())
}

func TestBoard_DropOnSameColumnIsNoop(t *testing.T) {
	b, gw := newTestBoard(t)
	require.NoError(t, b.BeginDrag("3"))

	outcome, task, err := b.Drop(context.Background(), domain.StatusInProgress)

	require.NoError(t, err)
	assert.Equal(t, DropUnchanged, outcome)
	assert.Nil(t, task)
	assert.Zero(t, gw.CallCounts().UpdateTask)
	assert.Empty(t, b.Dragging())
}

func TestBoard_DropOutsideColumnCancels(t *testing.T) {
	b, gw := newTestBoard(t)
	require.NoError(t, b.BeginDrag("1"))

	outcome, _, err := b.Drop(context.Background(), domain.Status("archive"))

	require.NoError(t, err)
	assert.Equal(t, DropCanceled, outcome)
	assert.Zero(t, gw.CallCounts().UpdateTask)
	assert.Equal(t, domain.StatusTodo, b.Collection().Get("1").Status)
	assert.Empty(t, b.Dragging())
}

func TestBoard_DropWithoutDrag(t *testing.T) {
	b, gw := newTestBoard(t)

	outcome, _, err := b.Drop(context.Background(), domain.StatusDone)

	require.NoError(t, err)
	assert.Equal(t, DropNone, outcome)
	assert.Zero(t, gw.CallCounts().UpdateTask)
}

func TestBoard_DropFailureStillEndsDrag(t *testing.T) {
	b, gw := newTestBoard(t)
	gw.UpdateErr = errServer
	require.NoError(t, b.BeginDrag("1"))

	outcome, _, err := b.Drop(context.Background(), domain.StatusDone)

	assert.Equal(t, DropMoved, outcome)
	assert.ErrorIs(t, err, domain.ErrMutation)
	assert.Equal(t, domain.StatusTodo, b.Collection().Get("1").Status)
	assert.Empty(t, b.Dragging())
}

func TestBoard_CancelDrag(t *testing.T) {
	b, gw := newTestBoard(t)
	require.NoError(t, b.BeginDrag("1"))

	b.CancelDrag()

	assert.Empty(t, b.Dragging())
	assert.Zero(t, gw.CallCounts().UpdateTask)
}

func TestBoard_BeginDragUnknownTask(t *testing.T) {
	b, _ := newTestBoard(t)

	assert.ErrorIs(t, b.BeginDrag("nope"), domain.ErrTaskNotFound)
	assert.Empty(t, b.Dragging())
}

func TestBoard_Columns(t *testing.T) {
	b, _ := newTestBoard(t)

	cols := b.Columns(domain.TaskFilter{})

	require.Len(t, cols, 3)
	assert.Equal(t, domain.StatusTodo, cols[0].Status)
	assert.Equal(t, []string{"1"}, ids(cols[0].Tasks))
	assert.Equal(t, domain.StatusInProgress, cols[1].Status)
	assert.Equal(t, []string{"3"}, ids(cols[1].Tasks))
	assert.Equal(t, domain.StatusDone, cols[2].Status)
	assert.Equal(t, []string{"2"}, ids(cols[2].Tasks))

	filtered := b.Columns(domain.TaskFilter{Priority: domain.PriorityHigh})
	assert.Equal(t, []string{"1"}, ids(filtered[0].Tasks))
	assert.Empty(t, filtered[1].Tasks)
	assert.Empty(t, filtered[2].Tasks)
}

func TestDropOutcome_String(t *testing.T) {
	assert.Equal(t, "none", DropNone.String())
	assert.Equal(t, "canceled", DropCanceled.String())
	assert.Equal(t, "unchanged", DropUnchanged.String())
	assert.Equal(t, "moved", DropMoved.String())
}
