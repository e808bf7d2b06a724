package usecase

import (
	"context"
	"sync"

	"github.com/runoshun/taskflow/internal/domain"
)

// DropOutcome describes what a drop did.
type DropOutcome int

const (
	DropNone      DropOutcome = iota // Nothing was being dragged
	DropCanceled                     // Released outside a valid column
	DropUnchanged                    // Released on the task's own column
	DropMoved                        // Status changed
)

// String returns the outcome name.
func (o DropOutcome) String() string {
	switch o {
	case DropCanceled:
		return "canceled"
	case DropUnchanged:
		return "unchanged"
	case DropMoved:
		return "moved"
	default:
		return "none"
	}
}

// Column is one board column.
type Column struct {
	Status domain.Status
	Tasks  []*domain.Task
}

// Board drives status transitions from the kanban view: one-click cycling
// and drag-and-drop between columns. It holds the drag session; all task
// state lives in the TaskCollection.
type Board struct {
	tasks *TaskCollection
	drag  domain.DragSession
	mu    sync.Mutex
}

// NewBoard creates a Board over a collection.
func NewBoard(tasks *TaskCollection) *Board {
	return &Board{tasks: tasks}
}

// Collection returns the underlying collection.
func (b *Board) Collection() *TaskCollection {
	return b.tasks
}

// Cycle advances the task's status todo → in_progress → done → todo.
func (b *Board) Cycle(ctx context.Context, id string) (*domain.Task, error) {
	p, err := b.StartCycle(id)
	if err != nil {
		return nil, err
	}
	return p.Commit(ctx)
}

// StartCycle applies the next status locally and returns the pending update.
func (b *Board) StartCycle(id string) (*Pending, error) {
	t := b.tasks.Get(id)
	if t == nil {
		return nil, &domain.MutationError{Op: "update", TaskID: id, Err: domain.ErrTaskNotFound}
	}
	return b.tasks.ApplyUpdate(id, domain.StatusPatch(t.Status.Next()))
}

// BeginDrag picks up a task. Any drag in progress is replaced.
func (b *Board) BeginDrag(id string) error {
	t := b.tasks.Get(id)
	if t == nil {
		return domain.ErrTaskNotFound
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drag.Begin(id, t.Status)
	return nil
}

// Dragging returns the id of the task being dragged, or "".
func (b *Board) Dragging() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drag.Dragging()
}

// CancelDrag drops the task nowhere. No state changes.
func (b *Board) CancelDrag() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drag.End()
}

// Drop releases the dragged task over column and commits the move.
func (b *Board) Drop(ctx context.Context, column domain.Status) (DropOutcome, *domain.Task, error) {
	outcome, p, err := b.StartDrop(column)
	if err != nil || p == nil {
		return outcome, nil, err
	}
	t, err := p.Commit(ctx)
	return outcome, t, err
}

// StartDrop ends the drag and, if the column differs from the task's
// status, applies the move locally. The returned Pending is nil unless the
// outcome is DropMoved. The drag session is idle afterwards in every case.
func (b *Board) StartDrop(column domain.Status) (DropOutcome, *Pending, error) {
	b.mu.Lock()
	id, _ := b.drag.End()
	b.mu.Unlock()

	if id == "" {
		return DropNone, nil, nil
	}
	if !column.IsValid() {
		return DropCanceled, nil, nil
	}
	t := b.tasks.Get(id)
	if t == nil {
		return DropCanceled, nil, &domain.MutationError{Op: "update", TaskID: id, Err: domain.ErrTaskNotFound}
	}
	if t.Status == column {
		return DropUnchanged, nil, nil
	}
	p, err := b.tasks.ApplyUpdate(id, domain.StatusPatch(column))
	if err != nil {
		return DropCanceled, nil, err
	}
	return DropMoved, p, nil
}

// Columns groups the filtered collection by status in board order.
// Tasks with an unknown status appear in no column.
func (b *Board) Columns(f domain.TaskFilter) []Column {
	tasks := b.tasks.Filter(f)
	cols := make([]Column, 0, len(domain.AllStatuses()))
	for _, st := range domain.AllStatuses() {
		col := Column{Status: st, Tasks: []*domain.Task{}}
		for _, t := range tasks {
			if t.Status == st {
				col.Tasks = append(col.Tasks, t)
			}
		}
		cols = append(cols, col)
	}
	return cols
}
