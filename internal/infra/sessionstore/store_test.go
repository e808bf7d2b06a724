package sessionstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "state", "session.json"))
}

func testSession() *domain.Session {
	return &domain.Session{
		Token: "token_u1",
		User: domain.User{
			ID:        "u1",
			Name:      "Alex Demo",
			Email:     "alex@taskflow.dev",
			Role:      "admin",
			Avatar:    "AD",
			CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	session, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if session != nil {
		t.Errorf("Load() = %+v, want nil", session)
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	want := testSession()

	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got == nil {
		t.Fatal("Load() = nil, want session")
	}
	if got.Token != want.Token {
		t.Errorf("Token = %q, want %q", got.Token, want.Token)
	}
	if got.User != want.User {
		t.Errorf("User = %+v, want %+v", got.User, want.User)
	}
}

func TestStore_FileUsesFixedKeys(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.SetTheme(domain.ThemeLight); err != nil {
		t.Fatalf("SetTheme() error = %v", err)
	}

	content, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"tf_user", "tf_token", "tf_theme"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("key %q missing from %s", key, content)
		}
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
}

func TestStore_ClearKeepsTheme(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.SetTheme(domain.ThemeLight); err != nil {
		t.Fatalf("SetTheme() error = %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	session, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if session != nil {
		t.Errorf("Load() after Clear = %+v, want nil", session)
	}
	theme, err := store.Theme()
	if err != nil {
		t.Fatalf("Theme() error = %v", err)
	}
	if theme != domain.ThemeLight {
		t.Errorf("Theme() = %q, want light", theme)
	}
}

func TestStore_ThemeDefaultsToDark(t *testing.T) {
	store := newTestStore(t)

	theme, err := store.Theme()
	if err != nil {
		t.Fatalf("Theme() error = %v", err)
	}
	if theme != domain.ThemeDark {
		t.Errorf("Theme() = %q, want dark", theme)
	}

	if err := store.SetTheme("sepia"); err == nil {
		t.Error("SetTheme(sepia) error = nil, want error")
	}
}

func TestStore_WithDefaultTheme(t *testing.T) {
	store := newTestStore(t).WithDefaultTheme(domain.ThemeLight)

	theme, err := store.Theme()
	if err != nil {
		t.Fatalf("Theme() error = %v", err)
	}
	if theme != domain.ThemeLight {
		t.Errorf("Theme() = %q, want light", theme)
	}

	// A stored theme wins over the default
	if err := store.SetTheme(domain.ThemeDark); err != nil {
		t.Fatalf("SetTheme() error = %v", err)
	}
	theme, _ = store.Theme()
	if theme != domain.ThemeDark {
		t.Errorf("Theme() = %q, want dark", theme)
	}

	// Unknown defaults are ignored
	store = newTestStore(t).WithDefaultTheme("sepia")
	theme, _ = store.Theme()
	if theme != domain.ThemeDark {
		t.Errorf("Theme() = %q, want dark", theme)
	}
}

func TestStore_SaveRejectsMissingToken(t *testing.T) {
	store := newTestStore(t)
	session := testSession()
	session.Token = ""

	if err := store.Save(session); err == nil {
		t.Error("Save() error = nil, want error")
	}
}

func TestStore_CorruptFile(t *testing.T) {
	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}
