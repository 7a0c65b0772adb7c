package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aanand-mishra/wellbeing-api/internal/config"
)

func TestOpenStorageSQLite(t *testing.T) {
	cfg := &config.Config{DatabaseURL: filepath.Join(t.TempDir(), "students.db")}

	store, err := openStorage(cfg)
	if err != nil {
		t.Fatalf("openStorage: %v", err)
	}
	defer store.Close()

	if _, err := store.ListStudents(context.Background(), 0, 10); err != nil {
		t.Errorf("ListStudents on fresh db: %v", err)
	}
}

func TestOpenStorageBadURL(t *testing.T) {
	if _, err := openStorage(&config.Config{DatabaseURL: "mongodb://localhost"}); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}

func TestSetupLogger(t *testing.T) {
	ctx := context.Background()
	if setupLogger("prod").Enabled(ctx, -4) {
		t.Error("prod logger should not emit debug")
	}
	if !setupLogger("dev").Enabled(ctx, -4) {
		t.Error("dev logger should emit debug")
	}
}
