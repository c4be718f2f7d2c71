package backend

import (
	"context"
	"errors"
	"testing"

	"scraper-dashboard/internal/config"
	"scraper-dashboard/internal/supabase"
)

func TestOpen_Supabase(t *testing.T) {
	b, err := Open(context.Background(), config.Config{
		Backend:  config.BackendSupabase,
		StoreURL: "http://localhost:54321",
		StoreKey: "anon",
	}, nil, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()

	if _, ok := b.Executor.(*supabase.Client); !ok {
		t.Fatalf("executor = %T, want *supabase.Client without metrics", b.Executor)
	}
	if _, ok := b.Identity.(*supabase.Auth); !ok {
		t.Fatalf("identity = %T", b.Identity)
	}
	if err := b.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := Open(context.Background(), config.Config{Backend: config.BackendSupabase}, nil, nil)
	if !errors.Is(err, config.ErrMissingStoreConfig) {
		t.Fatalf("expected ErrMissingStoreConfig, got %v", err)
	}
	_, err = Open(context.Background(), config.Config{Backend: config.BackendPostgres}, nil, nil)
	if !errors.Is(err, config.ErrMissingDSN) {
		t.Fatalf("expected ErrMissingDSN, got %v", err)
	}
}
