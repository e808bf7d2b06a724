// Package usecase contains application use cases.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/runoshun/taskflow/internal/domain"
)

// UpdateMode selects how TaskCollection.Update reconciles with the server.
type UpdateMode int

const (
	// UpdateOptimistic applies the patch locally first and rolls it back if
	// the server rejects it. Used by status changes (cycle, drop).
	UpdateOptimistic UpdateMode = iota
	// UpdateConfirmed waits for the server and then reloads the collection.
	// Used by full-form edits.
	UpdateConfirmed
)

// String returns the mode name.
func (m UpdateMode) String() string {
	switch m {
	case UpdateOptimistic:
		return "optimistic"
	case UpdateConfirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("UpdateMode(%d)", int(m))
	}
}

const logCategory = "collection"

// TaskCollection is the client-side copy of the task list.
// It is the only writer of that copy; readers always get clones.
// Network calls are made without holding the lock, so the collection
// stays readable while they are in flight.
type TaskCollection struct {
	tasksAPI   domain.TaskGateway
	catsAPI    domain.CategoryGateway // may be nil
	logger     domain.Logger
	muts       map[string]*mutationState
	tasks      []*domain.Task
	categories []domain.Category
	loadSeq    uint64
	mutSeq     uint64 // bumped on every local change made by a mutation
	mu         sync.Mutex
	loadFailed bool
	closed     bool
}

// mutationState tracks the mutations issued for one task id.
type mutationState struct {
	confirmed    *domain.Task // last state known to be on the server
	seq          uint64       // latest mutation
	confirmedSeq uint64       // mutation that produced confirmed
	touched      uint64       // mutSeq of the last local change
	inflight     int          // optimistic mutations not yet committed
	failed       bool         // latest mutation was rejected
}

// NewTaskCollection creates an empty collection. Call Load to fill it.
func NewTaskCollection(tasks domain.TaskGateway, categories domain.CategoryGateway, logger domain.Logger) *TaskCollection {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &TaskCollection{
		tasksAPI: tasks,
		catsAPI:  categories,
		logger:   logger,
		muts:     make(map[string]*mutationState),
	}
}

// Load fetches all tasks and categories and replaces the collection.
// Tasks changed locally while the fetch was in flight, or with a mutation
// still waiting for the server, keep their local state.
// On failure the previous contents are kept and LoadFailed reports true.
func (c *TaskCollection) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrDetached
	}
	c.loadSeq++
	mySeq := c.loadSeq
	since := c.mutSeq
	c.mu.Unlock()

	tasks, cats, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrDetached
	}
	if mySeq != c.loadSeq {
		// A newer load owns the result.
		c.logger.Debug("", logCategory, "dropped stale load result")
		return nil
	}
	if err != nil {
		c.loadFailed = true
		c.logger.Warn("", logCategory, err.Error())
		return err
	}
	c.tasks = c.mergeLoaded(tasks, since)
	if cats != nil {
		c.categories = cats
	}
	c.loadFailed = false
	c.logger.Debug("", logCategory, fmt.Sprintf("loaded %d tasks", len(tasks)))
	return nil
}

// mergeLoaded overlays local state on a fetched list for every task that
// was mutated after since or still has a mutation in flight. Caller must
// hold c.mu.
func (c *TaskCollection) mergeLoaded(fetched []*domain.Task, since uint64) []*domain.Task {
	keepLocal := func(id string) bool {
		st := c.muts[id]
		return st != nil && (st.inflight > 0 || st.touched > since)
	}

	out := make([]*domain.Task, 0, len(fetched))
	seen := make(map[string]bool, len(fetched))
	for _, t := range fetched {
		seen[t.ID] = true
		if !keepLocal(t.ID) {
			out = append(out, t)
			continue
		}
		if i := c.indexOf(t.ID); i >= 0 {
			out = append(out, c.tasks[i])
		} else {
			c.logger.Debug(t.ID, logCategory, "kept local delete over load result")
		}
	}
	for _, t := range c.tasks {
		if !seen[t.ID] && keepLocal(t.ID) {
			out = append(out, t)
		}
	}
	return out
}

func (c *TaskCollection) fetch(ctx context.Context) ([]*domain.Task, []domain.Category, error) {
	tasks, err := c.tasksAPI.ListTasks(ctx, domain.TaskFilter{})
	if err != nil {
		return nil, nil, &domain.FetchError{Resource: "tasks", Err: err}
	}
	if c.catsAPI == nil {
		return tasks, nil, nil
	}
	cats, err := c.catsAPI.ListCategories(ctx)
	if err != nil {
		return nil, nil, &domain.FetchError{Resource: "categories", Err: err}
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	return tasks, cats, nil
}

// Create validates the draft, creates it on the server and appends the
// server-confirmed task. The collection is unchanged on failure.
func (c *TaskCollection) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if c.isClosed() {
		return nil, domain.ErrDetached
	}

	created, err := c.tasksAPI.CreateTask(ctx, draft)
	if err != nil {
		c.logger.Error("", logCategory, "create failed: "+err.Error())
		return nil, &domain.MutationError{Op: "create", Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, domain.ErrDetached
	}
	if created == nil || created.ID == "" || c.indexOf(created.ID) >= 0 {
		id := ""
		if created != nil {
			id = created.ID
		}
		return nil, &domain.MutationError{Op: "create", TaskID: id, Err: domain.ErrDuplicateID}
	}
	c.tasks = append(c.tasks, created.Clone())
	c.touch(c.state(created.ID))
	c.logger.Info(created.ID, logCategory, "created")
	return created.Clone(), nil
}

// Update applies a partial update in the given mode.
func (c *TaskCollection) Update(ctx context.Context, id string, patch domain.TaskPatch, mode UpdateMode) (*domain.Task, error) {
	if mode == UpdateConfirmed {
		return c.updateConfirmed(ctx, id, patch)
	}
	p, err := c.ApplyUpdate(id, patch)
	if err != nil {
		return nil, err
	}
	return p.Commit(ctx)
}

// ApplyUpdate applies the patch locally and returns the pending server call.
// The local entry shows the new values until Commit reports the outcome.
func (c *TaskCollection) ApplyUpdate(id string, patch domain.TaskPatch) (*Pending, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, domain.ErrDetached
	}
	i := c.indexOf(id)
	if i < 0 {
		return nil, &domain.MutationError{Op: "update", TaskID: id, Err: domain.ErrTaskNotFound}
	}
	p := &Pending{
		c:     c,
		op:    pendingUpdate,
		id:    id,
		patch: patch,
		seq:   c.begin(id, c.tasks[i]),
	}
	c.tasks[i] = patch.Apply(c.tasks[i])
	return p, nil
}

func (c *TaskCollection) updateConfirmed(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, domain.ErrDetached
	}
	if c.indexOf(id) < 0 {
		c.mu.Unlock()
		return nil, &domain.MutationError{Op: "update", TaskID: id, Err: domain.ErrTaskNotFound}
	}
	st := c.state(id)
	st.seq++
	mySeq := st.seq
	c.mu.Unlock()

	updated, err := c.tasksAPI.UpdateTask(ctx, id, patch)
	if err != nil {
		c.logger.Error(id, logCategory, "update failed: "+err.Error())
		return nil, &domain.MutationError{Op: "update", TaskID: id, Err: err}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, domain.ErrDetached
	}
	if st.seq == mySeq {
		st.setConfirmed(updated, mySeq)
		if i := c.indexOf(id); i >= 0 {
			c.tasks[i] = updated.Clone()
			c.touch(st)
		}
	} else {
		c.logger.Debug(id, logCategory, "dropped stale edit response")
	}
	c.mu.Unlock()
	c.logger.Info(id, logCategory, "updated")

	// Reload so the whole list reflects the server. A failed reload is
	// surfaced through LoadFailed; the edit itself succeeded.
	if err := c.Load(ctx); err != nil && !errors.Is(err, domain.ErrDetached) {
		c.logger.Warn(id, logCategory, "reload after edit failed: "+err.Error())
	}
	return updated.Clone(), nil
}

// Remove asks confirm and, on yes, deletes the task. The entry disappears
// locally before the server call and is restored at its original position
// if the server rejects the delete. A nil confirm or a "no" answer returns
// ErrNotConfirmed without any server call.
func (c *TaskCollection) Remove(ctx context.Context, id string, confirm domain.Confirmer) error {
	p, err := c.ApplyRemove(id, confirm)
	if err != nil {
		return err
	}
	_, err = p.Commit(ctx)
	return err
}

// ApplyRemove confirms and removes the entry locally, returning the pending delete.
func (c *TaskCollection) ApplyRemove(id string, confirm domain.Confirmer) (*Pending, error) {
	task := c.Get(id)
	if task == nil {
		return nil, &domain.MutationError{Op: "delete", TaskID: id, Err: domain.ErrTaskNotFound}
	}
	if confirm == nil {
		return nil, domain.ErrNotConfirmed
	}
	ok, err := confirm.Confirm(fmt.Sprintf("Delete task %q?", task.Title))
	if err != nil {
		return nil, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotConfirmed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, domain.ErrDetached
	}
	i := c.indexOf(id)
	if i < 0 {
		return nil, &domain.MutationError{Op: "delete", TaskID: id, Err: domain.ErrTaskNotFound}
	}
	p := &Pending{
		c:        c,
		op:       pendingDelete,
		id:       id,
		snapshot: c.tasks[i],
		index:    i,
		seq:      c.begin(id, c.tasks[i]),
	}
	c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)
	return p, nil
}

// Filter returns the tasks matching f in collection order. It does not
// modify the collection.
func (c *TaskCollection) Filter(f domain.TaskFilter) []*domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CloneTasks(domain.FilterTasks(c.tasks, f))
}

// Tasks returns every task in collection order.
func (c *TaskCollection) Tasks() []*domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CloneTasks(c.tasks)
}

// Get returns a copy of the task, or nil if it is not in the collection.
func (c *TaskCollection) Get(id string) *domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.tasks[i].Clone()
	}
	return nil
}

// Len returns the number of tasks.
func (c *TaskCollection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}

// Categories returns the categories from the last successful load.
func (c *TaskCollection) Categories() []domain.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Category(nil), c.categories...)
}

// LoadFailed reports whether the most recent load failed.
func (c *TaskCollection) LoadFailed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadFailed
}

// Close detaches the collection. Responses that arrive afterwards are
// discarded and further mutations return ErrDetached.
func (c *TaskCollection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *TaskCollection) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// indexOf returns the position of id, or -1. Caller must hold c.mu.
func (c *TaskCollection) indexOf(id string) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// state returns the mutation state for id, creating it. Caller must hold c.mu.
func (c *TaskCollection) state(id string) *mutationState {
	st, ok := c.muts[id]
	if !ok {
		st = &mutationState{}
		c.muts[id] = st
	}
	return st
}

// begin starts an optimistic mutation of current and returns its sequence
// number. The first mutation of a burst records current as the server
// state to fall back to. Caller must hold c.mu.
func (c *TaskCollection) begin(id string, current *domain.Task) uint64 {
	st := c.state(id)
	if st.inflight == 0 {
		st.setConfirmed(current, st.seq)
	}
	st.seq++
	st.inflight++
	st.failed = false
	c.touch(st)
	return st.seq
}

// touch marks a local change. Caller must hold c.mu.
func (c *TaskCollection) touch(st *mutationState) {
	c.mutSeq++
	st.touched = c.mutSeq
}

// setConfirmed records t as the server state unless a newer mutation
// already did.
func (st *mutationState) setConfirmed(t *domain.Task, seq uint64) {
	if t == nil || seq < st.confirmedSeq {
		return
	}
	st.confirmed = t.Clone()
	st.confirmedSeq = seq
}

// settle ends one in-flight mutation. Once none are left and the latest
// one was rejected, the local entry falls back to the last server state.
// Caller must hold c.mu.
func (c *TaskCollection) settle(id string, st *mutationState) {
	st.inflight--
	if st.inflight > 0 || !st.failed || st.confirmed == nil {
		return
	}
	if i := c.indexOf(id); i >= 0 {
		c.tasks[i] = st.confirmed.Clone()
		c.touch(st)
		c.logger.Warn(id, logCategory, "rolled back to last confirmed state")
	}
}

type pendingOp string

const (
	pendingUpdate pendingOp = "update"
	pendingDelete pendingOp = "delete"
)

// Pending is a local mutation waiting for the server.
// Commit must be called exactly once.
type Pending struct {
	c        *TaskCollection
	snapshot *domain.Task // State before the mutation (delete only)
	op       pendingOp
	id       string
	patch    domain.TaskPatch
	index    int // Original position (delete only)
	seq      uint64
}

// TaskID returns the id of the task being mutated.
func (p *Pending) TaskID() string {
	return p.id
}

// Commit sends the mutation to the server and reconciles the result.
// Only the latest mutation for a task may write back; older responses are
// dropped. When the latest mutation fails the entry returns to the last
// state the server confirmed, as soon as no other mutation for it is in
// flight, and a *domain.MutationError is returned.
func (p *Pending) Commit(ctx context.Context) (*domain.Task, error) {
	switch p.op {
	case pendingDelete:
		return nil, p.commitDelete(ctx)
	default:
		return p.commitUpdate(ctx)
	}
}

func (p *Pending) commitUpdate(ctx context.Context) (*domain.Task, error) {
	c := p.c
	updated, err := c.tasksAPI.UpdateTask(ctx, p.id, p.patch)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, domain.ErrDetached
	}
	st := c.state(p.id)
	latest := st.seq == p.seq
	defer c.settle(p.id, st)

	if err != nil {
		c.logger.Error(p.id, logCategory, "update failed: "+err.Error())
		if latest {
			st.failed = true
		}
		return nil, &domain.MutationError{Op: "update", TaskID: p.id, Err: err}
	}

	st.setConfirmed(updated, p.seq)
	i := c.indexOf(p.id)
	if !latest {
		c.logger.Debug(p.id, logCategory, "dropped stale update response")
		if i >= 0 {
			return c.tasks[i].Clone(), nil
		}
		return updated.Clone(), nil
	}
	if i >= 0 {
		c.tasks[i] = updated.Clone()
		c.touch(st)
	}
	c.logger.Info(p.id, logCategory, "updated")
	return updated.Clone(), nil
}

func (p *Pending) commitDelete(ctx context.Context) error {
	c := p.c
	err := c.tasksAPI.DeleteTask(ctx, p.id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrDetached
	}
	st := c.state(p.id)
	latest := st.seq == p.seq
	defer c.settle(p.id, st)

	if err == nil {
		c.logger.Info(p.id, logCategory, "deleted")
		return nil
	}
	if errors.Is(err, domain.ErrTaskNotFound) {
		// Already gone on the server; keep it gone locally.
		c.logger.Warn(p.id, logCategory, "delete: task already removed on server")
		return nil
	}

	c.logger.Error(p.id, logCategory, "delete failed: "+err.Error())
	if latest {
		st.failed = true
		if c.indexOf(p.id) < 0 {
			restored := p.snapshot
			if st.confirmed != nil {
				restored = st.confirmed.Clone()
			}
			at := min(p.index, len(c.tasks))
			c.tasks = append(c.tasks[:at], append([]*domain.Task{restored}, c.tasks[at:]...)...)
			c.touch(st)
			c.logger.Warn(p.id, logCategory, "restored task after failed delete")
		}
	}
	return &domain.MutationError{Op: "delete", TaskID: p.id, Err: err}
}
