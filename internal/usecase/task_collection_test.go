package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/testutil"
)

var errServer = &domain.APIError{Status: 500, Detail: "boom"}

func sampleTasks() []*domain.Task {
	return []*domain.Task{
		{ID: "1", Title: "A", Status: domain.StatusTodo, Priority: domain.PriorityHigh},
		{ID: "2", Title: "B", Status: domain.StatusDone, Priority: domain.PriorityLow},
		{ID: "3", Title: "Write report", Description: "quarterly numbers", Status: domain.StatusInProgress, Priority: domain.PriorityMedium, Category: "Work"},
	}
}

func newLoadedCollection(t *testing.T, gw *testutil.MockGateway) (*TaskCollection, *testutil.MockLogger) {
	t.Helper()
	logger := &testutil.MockLogger{}
	c := NewTaskCollection(gw, gw, logger)
	require.NoError(t, c.Load(context.Background()))
	return c, logger
}

func ids(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestTaskCollection_Load(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	gw.Categories = []domain.Category{{ID: "c1", Name: "Work", Color: "#818CF8"}}

	c, _ := newLoadedCollection(t, gw)

	assert.Equal(t, []string{"1", "2", "3"}, ids(c.Tasks()))
	assert.Equal(t, gw.Categories, c.Categories())
	assert.False(t, c.LoadFailed())
}

func TestTaskCollection_LoadFailureKeepsPreviousState(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)

	gw.ListErr = errors.New("connection refused")
	err := c.Load(context.Background())

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "tasks", fetchErr.Resource)
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.True(t, c.LoadFailed())
	assert.Equal(t, []string{"1", "2", "3"}, ids(c.Tasks()), "stale but consistent")

	gw.ListErr = nil
	require.NoError(t, c.Load(context.Background()))
	assert.False(t, c.LoadFailed())
}

func TestTaskCollection_LoadCategoryFailure(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)

	gw.Tasks = gw.Tasks[:1]
	gw.CategoriesErr = errors.New("down")
	err := c.Load(context.Background())

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "categories", fetchErr.Resource)
	assert.Len(t, c.Tasks(), 3)
}

func TestTaskCollection_FilterScenario(t *testing.T) {
	c, _ := newLoadedCollection(t, testutil.NewMockGateway(sampleTasks()[:2]...))

	assert.Equal(t, []string{"1"}, ids(c.Filter(domain.TaskFilter{Status: domain.StatusTodo})))
	assert.Equal(t, []string{"2"}, ids(c.Filter(domain.TaskFilter{Query: "b"})))
	assert.Empty(t, c.Filter(domain.TaskFilter{Status: domain.StatusDone, Query: "a"}))
}

func TestTaskCollection_FilterAllIsIdentityAndPure(t *testing.T) {
	c, _ := newLoadedCollection(t, testutil.NewMockGateway(sampleTasks()...))
	all := domain.TaskFilter{Status: domain.FilterAll, Priority: domain.FilterAll}

	first := c.Filter(all)
	assert.Equal(t, c.Tasks(), first)

	first[0].Title = "mutated by caller"
	assert.Equal(t, "A", c.Get("1").Title, "results are copies")
	assert.Equal(t, c.Filter(all), c.Filter(all), "deterministic")

	// Description matches too, case-insensitively.
	assert.Equal(t, []string{"3"}, ids(c.Filter(domain.TaskFilter{Query: "QUARTERLY"})))
}

func TestTaskCollection_Create(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, logger := newLoadedCollection(t, gw)

	created, err := c.Create(context.Background(), domain.TaskDraft{Title: "  New task  "})
	require.NoError(t, err)

	assert.Equal(t, "new-1", created.ID)
	assert.Equal(t, "New task", created.Title)
	assert.Equal(t, domain.StatusTodo, created.Status)
	assert.Equal(t, domain.PriorityMedium, created.Priority)
	assert.Equal(t, []string{"1", "2", "3", "new-1"}, ids(c.Tasks()))
	assert.Equal(t, []string{"INFO"}, logger.Levels("new-1"))
}

func TestTaskCollection_CreateValidation(t *testing.T) {
	gw := testutil.NewMockGateway()
	c, _ := newLoadedCollection(t, gw)

	_, err := c.Create(context.Background(), domain.TaskDraft{Title: "   "})

	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	assert.Zero(t, gw.CallCounts().CreateTask, "no network call")

	_, err = c.Create(context.Background(), domain.TaskDraft{Title: "x", Priority: "critical"})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
	assert.Zero(t, gw.CallCounts().CreateTask)
}

func TestTaskCollection_CreateFailureLeavesCollection(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)
	gw.CreateErr = errServer

	_, err := c.Create(context.Background(), domain.TaskDraft{Title: "x"})

	var mutErr *domain.MutationError
	require.ErrorAs(t, err, &mutErr)
	assert.Equal(t, "create", mutErr.Op)
	assert.Equal(t, "boom", domain.UserMessage(err, "fallback"))
	assert.Len(t, c.Tasks(), 3)
}

func TestTaskCollection_CreateRejectsDuplicateID(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)
	gw.NextTaskID = "2"

	_, err := c.Create(context.Background(), domain.TaskDraft{Title: "x"})

	assert.ErrorIs(t, err, domain.ErrDuplicateID)
	assert.Len(t, c.Tasks(), 3)
}

func TestTaskCollection_UpdateOptimistic(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)

	var seenLocally domain.Status
	gw.BeforeUpdate = func(id string, _ domain.TaskPatch) {
		seenLocally = c.Get(id).Status
	}

	updated, err := c.Update(context.Background(), "1", domain.StatusPatch(domain.StatusDone), UpdateOptimistic)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusDone, seenLocally, "applied before the server answered")
	assert.Equal(t, domain.StatusDone, updated.Status)
	assert.Equal(t, domain.StatusDone, c.Get("1").Status)
	assert.Equal(t, 1, gw.CallCounts().ListTasks, "optimistic path does not reload")
}

func TestTaskCollection_UpdateOptimisticRollsBack(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, logger := newLoadedCollection(t, gw)
	before := c.Get("3")
	gw.UpdateErr = errServer

	_, err := c.Update(context.Background(), "3", domain.StatusPatch(domain.StatusDone), UpdateOptimistic)

	var mutErr *domain.MutationError
	require.ErrorAs(t, err, &mutErr)
	assert.Equal(t, "3", mutErr.TaskID)
	assert.Equal(t, before, c.Get("3"), "exact prior task restored")
	assert.Contains(t, logger.Levels("3"), "ERROR")
}

func TestTaskCollection_StaleResponseDropped(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)
	ctx := context.Background()

	first, err := c.ApplyUpdate("1", domain.StatusPatch(domain.StatusInProgress))
	require.NoError(t, err)
	second, err := c.ApplyUpdate("1", domain.StatusPatch(domain.StatusDone))
	require.NoError(t, err)

	// The newer request completes first.
	_, err = second.Commit(ctx)
	require.NoError(t, err)

	// The older one arrives late and must not overwrite.
	_, err = first.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, c.Get("1").Status)
}

func TestTaskCollection_StaleFailureDoesNotRollBackNewerUpdate(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)
	ctx := context.Background()

	first, err := c.ApplyUpdate("1", domain.StatusPatch(domain.StatusInProgress))
	require.NoError(t, err)
	second, err := c.ApplyUpdate("1", domain.StatusPatch(domain.StatusDone))
	require.NoError(t, err)
	_, err = second.Commit(ctx)
	require.NoError(t, err)

	gw.UpdateErr = errServer
	_, err = first.Commit(ctx)
	assert.ErrorIs(t, err, domain.ErrMutation)
	assert.Equal(t, domain.StatusDone, c.Get("1").Status)
}

func TestTaskCollection_UpdateConfirmed(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)

	var seenLocally string
	gw.BeforeUpdate = func(id string, _ domain.TaskPatch) {
		seenLocally = c.Get(id).Title
	}
	title := "Renamed"
	prio := domain.PriorityUrgent

	updated, err := c.Update(context.Background(), "2", domain.TaskPatch{Title: &title, Priority: &prio}, UpdateConfirmed)
	require.NoError(t, err)

	assert.Equal(t, "B", seenLocally, "not applied before the server answered")
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "Renamed", c.Get("2").Title)
	assert.Equal(t, domain.PriorityUrgent, c.Get("2").Priority)
	assert.Equal(t, 2, gw.CallCounts().ListTasks, "reloaded after the edit")
}

func TestTaskCollection_UpdateConfirmedFailure(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)
	gw.UpdateErr = errServer
	title := "Renamed"

	_, err := c.Update(context.Background(), "2", domain.TaskPatch{Title: &title}, UpdateConfirmed)

	assert.ErrorIs(t, err, domain.ErrMutation)
	assert.Equal(t, "B", c.Get("2").Title)
	assert.Equal(t, 1, gw.CallCounts().ListTasks)
}

func TestTaskCollection_UpdateValidation(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)

	_, err := c.Update(context.Background(), "1", domain.TaskPatch{}, UpdateConfirmed)
	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)

	_, err = c.Update(context.Background(), "1", domain.StatusPatch("blocked"), UpdateOptimistic)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = c.Update(context.Background(), "missing", domain.StatusPatch(domain.StatusDone), UpdateOptimistic)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	assert.Zero(t, gw.CallCounts().UpdateTask)
}

func TestTaskCollection_Remove(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)
	confirm := &testutil.MockConfirmer{Answer: true}

	require.NoError(t, c.Remove(context.Background(), "2", confirm))

	assert.Equal(t, []string{"1", "3"}, ids(c.Tasks()), "exactly one entry removed")
	assert.Equal(t, []string{`Delete task "B"?`}, confirm.Questions)
	assert.Nil(t, gw.Task("2"))
}

func TestTaskCollection_RemoveWithoutConfirmation(t *testing.T) {
	tests := []struct {
		confirm domain.Confirmer
		name    string
	}{
		{name: "answered no", confirm: &testutil.MockConfirmer{Answer: false}},
		{name: "nil confirmer", confirm: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := testutil.NewMockGateway(sampleTasks()...)
			c, _ := newLoadedCollection(t, gw)

			err := c.Remove(context.Background(), "2", tt.confirm)

			assert.ErrorIs(t, err, domain.ErrNotConfirmed)
			assert.Zero(t, gw.CallCounts().DeleteTask)
			assert.Len(t, c.Tasks(), 3)
		})
	}
}

func TestTaskCollection_RemoveFailureRestoresAtIndex(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)
	gw.DeleteErr = errServer

	confirm := domain.ConfirmFunc(func(string) (bool, error) { return true, nil })

	p, err := c.ApplyRemove("2", confirm)
	require.NoError(t, err)
	seenLocally := c.Len()

	_, err = p.Commit(context.Background())

	assert.Equal(t, 2, seenLocally, "removed before the server answered")
	assert.ErrorIs(t, err, domain.ErrMutation)
	assert.Equal(t, []string{"1", "2", "3"}, ids(c.Tasks()))
}

func TestTaskCollection_RemoveAlreadyGoneOnServer(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)
	gw.Tasks = gw.Tasks[:1]

	err := c.Remove(context.Background(), "2", domain.AlwaysConfirm)

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(c.Tasks()))
}

func TestTaskCollection_RemoveUnknownTask(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)
	confirm := &testutil.MockConfirmer{Answer: true}

	err := c.Remove(context.Background(), "nope", confirm)

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Empty(t, confirm.Questions)
	assert.Zero(t, gw.CallCounts().DeleteTask)
}

func TestTaskCollection_ClosedDiscardsResponses(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)

	p, err := c.ApplyUpdate("1", domain.StatusPatch(domain.StatusDone))
	require.NoError(t, err)
	c.Close()

	_, err = p.Commit(context.Background())
	assert.ErrorIs(t, err, domain.ErrDetached)

	assert.ErrorIs(t, c.Load(context.Background()), domain.ErrDetached)
	_, err = c.Create(context.Background(), domain.TaskDraft{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrDetached)
	assert.Equal(t, 1, gw.CallCounts().ListTasks)
}

func TestTaskCollection_LoadKeepsMutationsMadeDuringFetch(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)
	b := NewBoard(c)
	ctx := context.Background()

	// The list is read before the cycle and the delete reach the server,
	// and handed back after both have finished.
	fired := false
	gw.AfterList = func() {
		if fired {
			return
		}
		fired = true
		_, err := b.Cycle(ctx, "1")
		require.NoError(t, err)
		require.NoError(t, c.Remove(ctx, "2", domain.AlwaysConfirm))
	}

	require.NoError(t, c.Load(ctx))

	assert.Equal(t, domain.StatusInProgress, gw.Task("1").Status)
	assert.Equal(t, domain.StatusInProgress, c.Get("1").Status)
	assert.Nil(t, gw.Task("2"))
	assert.Nil(t, c.Get("2"))
	assert.Equal(t, []string{"1", "3"}, ids(c.Tasks()))
}

func TestTaskCollection_LoadKeepsPendingMutations(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)
	ctx := context.Background()

	update, err := c.ApplyUpdate("1", domain.StatusPatch(domain.StatusDone))
	require.NoError(t, err)
	remove, err := c.ApplyRemove("3", domain.AlwaysConfirm)
	require.NoError(t, err)
	gw.Tasks[1].Title = "B2"

	require.NoError(t, c.Load(ctx))

	assert.Equal(t, domain.StatusDone, c.Get("1").Status, "optimistic value kept")
	assert.Nil(t, c.Get("3"), "pending delete kept")
	assert.Equal(t, "B2", c.Get("2").Title, "untouched tasks take the server state")

	_, err = update.Commit(ctx)
	require.NoError(t, err)
	_, err = remove.Commit(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Load(ctx))
	assert.Equal(t, []string{"1", "2"}, ids(c.Tasks()))
	assert.Equal(t, domain.StatusDone, c.Get("1").Status)
}

func TestTaskCollection_FailedUpdateChainRollsBackToServerState(t *testing.T) {
	tests := []struct {
		name     string
		reversed bool
	}{
		{name: "responses in order"},
		{name: "responses reversed", reversed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := testutil.NewMockGateway(sampleTasks()...)
			c, _ := newLoadedCollection(t, gw)
			b := NewBoard(c)
			ctx := context.Background()

			first, err := b.StartCycle("1")
			require.NoError(t, err)
			second, err := b.StartCycle("1")
			require.NoError(t, err)
			assert.Equal(t, domain.StatusDone, c.Get("1").Status)

			gw.UpdateErr = errServer
			pending := []*Pending{first, second}
			if tt.reversed {
				pending = []*Pending{second, first}
			}
			for _, p := range pending {
				_, err := p.Commit(ctx)
				assert.ErrorIs(t, err, domain.ErrMutation)
			}

			assert.Equal(t, domain.StatusTodo, gw.Task("1").Status)
			assert.Equal(t, domain.StatusTodo, c.Get("1").Status)
		})
	}
}

func TestTaskCollection_FailedUpdateKeepsEarlierSuccess(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)
	ctx := context.Background()

	first, err := c.ApplyUpdate("1", domain.StatusPatch(domain.StatusInProgress))
	require.NoError(t, err)
	second, err := c.ApplyUpdate("1", domain.StatusPatch(domain.StatusDone))
	require.NoError(t, err)

	_, err = first.Commit(ctx)
	require.NoError(t, err)
	gw.UpdateErr = errServer
	_, err = second.Commit(ctx)
	assert.ErrorIs(t, err, domain.ErrMutation)

	assert.Equal(t, domain.StatusInProgress, gw.Task("1").Status)
	assert.Equal(t, domain.StatusInProgress, c.Get("1").Status)
}

func TestTaskCollection_UpdateConfirmedDoesNotOverwriteNewerCycle(t *testing.T) {
	gw := testutil.NewMockGateway(sampleTasks()...)
	c, _ := newLoadedCollection(t, gw)
	ctx := context.Background()

	// A cycle is started while the edit is on its way to the server.
	var cycle *Pending
	gw.BeforeUpdate = func(string, domain.TaskPatch) {
		if cycle != nil {
			return
		}
		var err error
		cycle, err = c.ApplyUpdate("2", domain.StatusPatch(domain.StatusTodo))
		require.NoError(t, err)
	}
	title := "Renamed"

	updated, err := c.Update(ctx, "2", domain.TaskPatch{Title: &title}, UpdateConfirmed)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, domain.StatusTodo, c.Get("2").Status, "edit response and reload leave the cycle alone")

	_, err = cycle.Commit(ctx)
	require.NoError(t, err)

	got := c.Get("2")
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, domain.StatusTodo, got.Status)
	assert.Equal(t, got, gw.Task("2"))
}
