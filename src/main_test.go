package main

import (
	"pocketbook-server/src/config"
	"testing"
)

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/pocketbook")

	v := config.New()
	root := newRootCommand(v)
	if err := root.PersistentFlags().Parse([]string{"--db-driver", "sqlite", "--sqlite-path", "dev.db"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := config.Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseDriver != "sqlite" || cfg.SQLitePath != "dev.db" {
		t.Errorf("driver %q path %q, want flag values", cfg.DatabaseDriver, cfg.SQLitePath)
	}
	if cfg.DatabaseURL != "postgres://localhost/pocketbook" {
		t.Errorf("unset flag replaced env value: %q", cfg.DatabaseURL)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want default", cfg.Port)
	}
}
