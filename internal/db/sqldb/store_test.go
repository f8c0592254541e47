package sqldb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/platefinder/internal/db"
)

func newMemoryStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(Config{Driver: DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(s.Close)
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return s
}

func insert(t *testing.T, s *Store, id, body string) {
	t.Helper()
	query := s.db.Rebind(`INSERT INTO ` + Table + ` (id, document) VALUES (?, ?)`)
	if _, err := s.db.Exec(query, id, body); err != nil {
		t.Fatalf("insert %s: %v", id, err)
	}
}

func TestNewStore_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown driver", Config{Driver: "mysql", DSN: "x"}},
		{"empty driver", Config{DSN: "x"}},
		{"empty dsn", Config{Driver: DriverSQLite}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewStore(tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	s := newMemoryStore(t)
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

func TestPingAndWaitForReady(t *testing.T) {
	s := newMemoryStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := s.WaitForReady(context.Background(), time.Second); err != nil {
		t.Fatalf("WaitForReady: %v", err)
	}
}

func TestListDocuments_OrderedByID(t *testing.T) {
	s := newMemoryStore(t)
	insert(t, s, "c2", `{"restaurants":[]}`)
	insert(t, s, "a1", `{"restaurants":[{"restaurant":{"id":"1"}}]}`)
	insert(t, s, "b7", `{}`)

	docs, err := s.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	want := []string{"a1", "b7", "c2"}
	if len(docs) != len(want) {
		t.Fatalf("expected %d docs, got %d", len(want), len(docs))
	}
	for i := range want {
		if docs[i].ID != want[i] {
			t.Errorf("position %d: got %q, want %q", i, docs[i].ID, want[i])
		}
	}
	if docs[0].Body != `{"restaurants":[{"restaurant":{"id":"1"}}]}` {
		t.Errorf("unexpected body: %s", docs[0].Body)
	}
}

func TestListDocuments_Empty(t *testing.T) {
	s := newMemoryStore(t)
	docs, err := s.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no docs, got %d", len(docs))
	}
}

func TestListDocuments_MissingTable(t *testing.T) {
	s, err := NewStore(Config{Driver: DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer s.Close()

	_, err = s.ListDocuments(context.Background())
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected db.Error, got %v", err)
	}
	if dbErr.Op != db.OpSelect {
		t.Errorf("Op = %q, want %q", dbErr.Op, db.OpSelect)
	}
}
