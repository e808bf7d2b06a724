package domain

import "testing"

func TestStatus_Next(t *testing.T) {
	tests := []struct {
		name   string
		from   Status
		expect Status
	}{
		{"todo -> in_progress", StatusTodo, StatusInProgress},
		{"in_progress -> done", StatusInProgress, StatusDone},
		{"done -> todo", StatusDone, StatusTodo},
		{"unknown -> todo", Status("blocked"), StatusTodo},
		{"empty -> todo", Status(""), StatusTodo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.Next(); got != tt.expect {
				t.Errorf("Next(%q) = %q, want %q", tt.from, got, tt.expect)
			}
		})
	}
}

func TestStatus_Next_PeriodThree(t *testing.T) {
	for _, s := range AllStatuses() {
		if got := s.Next().Next().Next(); got != s {
			t.Errorf("three cycles from %q = %q, want %q", s, got, s)
		}
	}
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status Status
		expect bool
	}{
		{StatusTodo, true},
		{StatusInProgress, true},
		{StatusDone, true},
		{Status("closed"), false},
		{Status(""), false},
		{Status("all"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.expect {
				t.Errorf("IsValid(%q) = %v, want %v", tt.status, got, tt.expect)
			}
		})
	}
}

func TestStatus_Display(t *testing.T) {
	tests := []struct {
		status Status
		expect string
	}{
		{StatusTodo, "To Do"},
		{StatusInProgress, "In Progress"},
		{StatusDone, "Done"},
		{Status("bogus"), ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Display(); got != tt.expect {
				t.Errorf("Display(%q) = %q, want %q", tt.status, got, tt.expect)
			}
		})
	}
}

func TestStatus_Index(t *testing.T) {
	if StatusTodo.Index() != 0 || StatusInProgress.Index() != 1 || StatusDone.Index() != 2 {
		t.Error("status indexes must follow column order")
	}
	if Status("x").Index() != -1 {
		t.Error("unknown status must have index -1")
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("in_progress")
	if err != nil || s != StatusInProgress {
		t.Errorf("ParseStatus(in_progress) = %q, %v", s, err)
	}
	if _, err := ParseStatus("all"); err != ErrInvalidStatus {
		t.Errorf("ParseStatus(all) error = %v, want ErrInvalidStatus", err)
	}
}

func TestPriority_Rank(t *testing.T) {
	for i, p := range AllPriorities() {
		if p.Rank() != i {
			t.Errorf("Rank(%q) = %d, want %d", p, p.Rank(), i)
		}
		if !p.IsValid() {
			t.Errorf("IsValid(%q) = false", p)
		}
	}
	if Priority("critical").IsValid() {
		t.Error("unknown priority must be invalid")
	}
	if Priority("critical").Display() != "" {
		t.Error("unknown priority must display blank")
	}
}
