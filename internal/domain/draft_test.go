package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskDraft_Normalize_Defaults(t *testing.T) {
	d := TaskDraft{Title: "  Write report  "}.Normalize()

	assert.Equal(t, "Write report", d.Title)
	assert.Equal(t, StatusTodo, d.Status)
	assert.Equal(t, PriorityMedium, d.Priority)
	assert.Nil(t, d.DueDate)
	assert.NoError(t, d.Validate())
}

func TestTaskDraft_Normalize_DueDateUTC(t *testing.T) {
	loc := time.FixedZone("EET", 2*60*60)
	due := time.Date(2026, 1, 10, 0, 0, 0, 0, loc)

	d := TaskDraft{Title: "x", DueDate: &due}.Normalize()

	require.NotNil(t, d.DueDate)
	assert.Equal(t, time.UTC, d.DueDate.Location())
	assert.True(t, d.DueDate.Equal(due))
}

func TestTaskDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		draft   TaskDraft
		field   string
		wantErr error
	}{
		{"empty title", TaskDraft{Title: "   "}, "title", ErrEmptyTitle},
		{"bad status", TaskDraft{Title: "a", Status: "closed", Priority: PriorityLow}, "status", ErrInvalidStatus},
		{"bad priority", TaskDraft{Title: "a", Status: StatusTodo, Priority: "critical"}, "priority", ErrInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestTaskPatch_Apply(t *testing.T) {
	due := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	orig := &Task{ID: "t1", Title: "Old", Status: StatusTodo, Priority: PriorityLow, DueDate: &due}

	title := "New"
	status := StatusDone
	out := TaskPatch{Title: &title, Status: &status, ClearDueDate: true}.Apply(orig)

	assert.Equal(t, "New", out.Title)
	assert.Equal(t, StatusDone, out.Status)
	assert.Nil(t, out.DueDate)
	assert.Equal(t, PriorityLow, out.Priority)

	// Original is untouched.
	assert.Equal(t, "Old", orig.Title)
	assert.Equal(t, StatusTodo, orig.Status)
	assert.NotNil(t, orig.DueDate)
}

func TestTaskPatch_Validate(t *testing.T) {
	assert.ErrorIs(t, TaskPatch{}.Validate(), ErrNoFieldsToUpdate)

	empty := " "
	assert.ErrorIs(t, TaskPatch{Title: &empty}.Validate(), ErrEmptyTitle)

	bad := Status("archived")
	assert.ErrorIs(t, TaskPatch{Status: &bad}.Validate(), ErrInvalidStatus)

	assert.NoError(t, StatusPatch(StatusDone).Validate())
	assert.True(t, StatusPatch(StatusDone).OnlyStatus())
}

func TestParseDueDate(t *testing.T) {
	got, err := ParseDueDate("2026-01-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), *got)

	got, err = ParseDueDate("2026-01-10T23:59:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 10, 21, 59, 0, 0, time.UTC), *got)

	got, err = ParseDueDate("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseDueDate("10/01/2026")
	assert.ErrorIs(t, err, ErrInvalidDueDate)
}

func TestCategoryDraft_Validate(t *testing.T) {
	d := CategoryDraft{Name: " Design "}.Normalize()
	assert.Equal(t, "Design", d.Name)
	assert.Equal(t, DefaultCategoryColor, d.Color)
	assert.NoError(t, d.Validate())

	assert.ErrorIs(t, CategoryDraft{Name: "", Color: "#FFFFFF"}.Validate(), ErrEmptyName)
	assert.ErrorIs(t, CategoryDraft{Name: "x", Color: "red"}.Validate(), ErrInvalidColor)
}

func TestCredentials_Validate(t *testing.T) {
	assert.NoError(t, Credentials{Email: "alex@taskflow.io", Password: "demo123"}.Validate())
	assert.ErrorIs(t, Credentials{Email: "not-an-email", Password: "x"}.Validate(), ErrValidation)
	assert.ErrorIs(t, Registration{Name: "A", Email: "a@b.io", Password: "123"}.Validate(), ErrValidation)
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "AP", Initials("Alexandru Popescu"))
	assert.Equal(t, "MI", Initials("maria ionescu extra"))
	assert.Equal(t, "S", Initials("Solo"))
	assert.Equal(t, "", Initials("   "))
}
