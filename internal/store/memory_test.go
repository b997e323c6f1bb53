package store_test

import (
	"context"
	"testing"

	"lampions/internal/domain"
	"lampions/internal/store"
)

func TestMemory_RoutesIsolation(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	in := []domain.Route{{ID: "id1", Alias: "shop"}}
	if err := m.PutRoutes(ctx, in); err != nil {
		t.Fatalf("put routes: %v", err)
	}

	got, err := m.Routes(ctx)
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	got[0].Alias = "mutated"

	again, err := m.Routes(ctx)
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	if again[0].Alias != "shop" {
		t.Fatal("store state leaked through returned slice")
	}
}

func TestMemory_Messages(t *testing.T) {
	m := store.NewMemory()
	m.AddMessage("msg-1", []byte("raw"))

	b, err := m.Message(context.Background(), "msg-1")
	if err != nil {
		t.Fatalf("message: %v", err)
	}
	if string(b) != "raw" {
		t.Fatalf("unexpected message %q", b)
	}
	if _, err := m.Message(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown message")
	}
}
