package domain

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so messages match the wire format.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// dateLayout is the calendar-date input format for due dates.
const dateLayout = "2006-01-02"

// TaskDraft is the input for creating a task.
// Fields are ordered to minimize memory padding.
type TaskDraft struct {
	DueDate     *time.Time `json:"dueDate"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Status      Status     `json:"status" validate:"oneof=todo in_progress done"`
	Priority    Priority   `json:"priority" validate:"oneof=low medium high urgent"`
	Category    string     `json:"category"`
}

// Normalize trims the title, fills in default status and priority and
// converts the due date to UTC.
func (d TaskDraft) Normalize() TaskDraft {
	d.Title = strings.TrimSpace(d.Title)
	if d.Status == "" {
		d.Status = StatusTodo
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	if d.DueDate != nil {
		due := d.DueDate.UTC()
		d.DueDate = &due
	}
	return d
}

// Validate checks the draft. Call Normalize first.
func (d TaskDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Err: ErrEmptyTitle, Field: "title", Message: ErrEmptyTitle.Error()}
	}
	return validationError(validate.Struct(d))
}

// TaskPatch is a partial update. Nil fields are left unchanged.
// Fields are ordered to minimize memory padding.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *Status
	Priority     *Priority
	Category     *string
	DueDate      *time.Time
	ClearDueDate bool // Remove the due date
}

// StatusPatch returns a patch that only changes the status.
func StatusPatch(s Status) TaskPatch {
	return TaskPatch{Status: &s}
}

// IsEmpty returns true if the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.Category == nil && p.DueDate == nil && !p.ClearDueDate
}

// OnlyStatus returns true if the patch changes the status and nothing else.
func (p TaskPatch) OnlyStatus() bool {
	return p.Status != nil && p.Title == nil && p.Description == nil &&
		p.Priority == nil && p.Category == nil && p.DueDate == nil && !p.ClearDueDate
}

// Validate checks the fields that are set.
func (p TaskPatch) Validate() error {
	if p.IsEmpty() {
		return &ValidationError{Err: ErrNoFieldsToUpdate, Message: ErrNoFieldsToUpdate.Error()}
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return &ValidationError{Err: ErrEmptyTitle, Field: "title", Message: ErrEmptyTitle.Error()}
	}
	if p.Status != nil && !p.Status.IsValid() {
		return &ValidationError{Err: ErrInvalidStatus, Field: "status", Message: ErrInvalidStatus.Error()}
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return &ValidationError{Err: ErrInvalidPriority, Field: "priority", Message: ErrInvalidPriority.Error()}
	}
	return nil
}

// Apply returns a copy of t with the patch applied.
func (p TaskPatch) Apply(t *Task) *Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.ClearDueDate {
		out.DueDate = nil
	} else if p.DueDate != nil {
		due := p.DueDate.UTC()
		out.DueDate = &due
	}
	return out
}

// ParseDueDate parses a calendar date (YYYY-MM-DD) or an RFC 3339 timestamp.
// A calendar date becomes midnight UTC of that day. The empty string yields nil.
func ParseDueDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, v); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		return &t, nil
	}
	return nil, ErrInvalidDueDate
}

// validationError converts validator errors into a *ValidationError for the first failing field.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Err: err, Message: err.Error()}
	}
	fe := fieldErrs[0]
	ve := &ValidationError{Field: fe.Field()}
	switch fe.Tag() {
	case "required":
		ve.Message = "is required"
		switch fe.Field() {
		case "title":
			ve.Err = ErrEmptyTitle
		case "name":
			ve.Err = ErrEmptyName
		}
	case "oneof":
		ve.Message = "must be one of " + fe.Param()
		switch fe.Field() {
		case "status":
			ve.Err = ErrInvalidStatus
		case "priority":
			ve.Err = ErrInvalidPriority
		}
	case "hexcolor":
		ve.Err = ErrInvalidColor
		ve.Message = ErrInvalidColor.Error()
	case "email":
		ve.Message = "must be a valid email address"
	case "min":
		ve.Message = "must be at least " + fe.Param() + " characters long"
	default:
		ve.Message = "is invalid: " + fe.Tag()
	}
	return ve
}
