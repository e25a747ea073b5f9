package credstore

import (
	"path/filepath"
	"testing"

	"taskboard-client/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "creds", "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadEmptyStore(t *testing.T) {
	s := openTestStore(t)
	creds, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if creds.Token != "" || creds.UserID != "" {
		t.Fatalf("expected empty credentials, got %+v", creds)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	want := session.Credentials{Token: "a.b.c", UserID: "u1"}
	if err := s.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := openTestStore(t)
	if err := s.Save(session.Credentials{Token: "old.t.k", UserID: "u1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(session.Credentials{Token: "new.t.k", UserID: "u2"}); err != nil {
		t.Fatalf("save again: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Token != "new.t.k" || got.UserID != "u2" {
		t.Fatalf("overwrite not applied: %+v", got)
	}
}

func TestClear(t *testing.T) {
	s := openTestStore(t)
	if err := s.Save(session.Credentials{Token: "a.b.c", UserID: "u1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Token != "" || got.UserID != "" {
		t.Fatalf("clear left credentials: %+v", got)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Save(session.Credentials{Token: "a.b.c", UserID: "u1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Token != "a.b.c" {
		t.Fatalf("credentials lost across reopen: %+v", got)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
