package container

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/kailas-cloud/platefinder/internal/db/sqldb"
)

func TestSQLRepo_List(t *testing.T) {
	store := &mockSQLStore{
		listFn: func(context.Context) ([]sqldb.Document, error) {
			return []sqldb.Document{
				{ID: "a", Body: tacoDoc},
				{ID: "b", Body: `{"restaurants":[]}`},
			}, nil
		},
	}
	containers, err := NewSQL(store).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(containers) != 2 || containers[0].ID != "a" || containers[1].ID != "b" {
		t.Fatalf("unexpected containers: %+v", containers)
	}
	if len(containers[0].Restaurants) != 2 {
		t.Errorf("expected 2 restaurants, got %d", len(containers[0].Restaurants))
	}
}

func TestSQLRepo_StoreError(t *testing.T) {
	boom := errors.New("boom")
	store := &mockSQLStore{
		listFn: func(context.Context) ([]sqldb.Document, error) { return nil, boom },
	}
	if _, err := NewSQL(store).List(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestSQLRepo_SQLite(t *testing.T) {
	conn, err := sqlx.Open(sqldb.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	conn.SetMaxOpenConns(1)
	store := sqldb.NewStoreFromDB(conn)
	defer store.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	insert := conn.Rebind(`INSERT INTO ` + sqldb.Table + ` (id, document) VALUES (?, ?)`)
	if _, err := conn.Exec(insert, "z", `{"restaurants":[{"restaurant":{"id":"2","name":"Z"}}]}`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := conn.Exec(insert, "m", tacoDoc); err != nil {
		t.Fatalf("insert: %v", err)
	}

	containers, err := NewSQL(store).List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(containers) != 2 || containers[0].ID != "m" || containers[1].ID != "z" {
		t.Fatalf("unexpected order: %+v", containers)
	}
	if containers[0].Restaurants[0].Name() != "Taco Town" {
		t.Errorf("unexpected first restaurant: %q", containers[0].Restaurants[0].Name())
	}
}
