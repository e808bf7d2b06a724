package domain

// DragSession tracks the task currently being dragged on the board.
// It has two states: idle, and dragging a single task.
// The zero value is idle.
type DragSession struct {
	taskID string
	origin Status
}

// Begin starts dragging a task from its origin column.
// Any prior drag is replaced.
func (d *DragSession) Begin(taskID string, origin Status) {
	d.taskID = taskID
	d.origin = origin
}

// Active returns true while a task is being dragged.
func (d *DragSession) Active() bool {
	return d.taskID != ""
}

// Dragging returns the dragged task ID, or "" when idle.
func (d *DragSession) Dragging() string {
	return d.taskID
}

// Origin returns the column the drag started from.
func (d *DragSession) Origin() Status {
	return d.origin
}

// IsDragging returns true if the given task is the one being dragged.
func (d *DragSession) IsDragging(taskID string) bool {
	return d.taskID != "" && d.taskID == taskID
}

// End returns the session to idle and reports the task that was being dragged.
func (d *DragSession) End() (taskID string, origin Status) {
	taskID, origin = d.taskID, d.origin
	d.taskID = ""
	d.origin = ""
	return taskID, origin
}
