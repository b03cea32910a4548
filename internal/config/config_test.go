package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LISTEN_ADDR", "DATABASE_DRIVER", "DATABASE_PATH", "DATABASE_DSN", "GIN_MODE",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_METHOD_CALLS", "LOG_METHOD_RETURNS", "LOG_METHOD_ERRORS",
		"METRICS_ENABLED", "SUPPORT_CONTACT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.ListenAddr != ":8080" || cfg.Port != "8080" {
		t.Fatalf("unexpected listen address: %s (port %s)", cfg.ListenAddr, cfg.Port)
	}
	if cfg.DatabaseDriver != "sqlite" || cfg.DatabasePath != "habitbuilder.db" {
		t.Fatalf("unexpected database config: %+v", cfg)
	}
	if !cfg.LogMethodCalls || !cfg.LogMethodReturns || !cfg.LogMethodErrors || !cfg.MetricsEnabled {
		t.Fatalf("expected toggles to default on: %+v", cfg)
	}
	if cfg.SupportContact != defaultSupportContact {
		t.Fatalf("unexpected support contact: %s", cfg.SupportContact)
	}
}

func TestLoadReadsEnvFileWithoutOverridingEnvironment(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "PORT=9090\nDATABASE_DRIVER=Postgres\nDATABASE_DSN=host=db user=habit\nLOG_METHOD_RETURNS=false\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	// godotenv skips variables that exist, even empty ones.
	for _, key := range []string{"PORT", "DATABASE_DRIVER", "DATABASE_DSN", "LOG_METHOD_RETURNS"} {
		os.Unsetenv(key)
	}
	t.Setenv("LOG_LEVEL", "warn")
	t.Cleanup(func() {
		for _, key := range []string{"PORT", "DATABASE_DRIVER", "DATABASE_DSN", "LOG_METHOD_RETURNS"} {
			os.Unsetenv(key)
		}
	})

	cfg := Load(envFile)

	if cfg.ListenAddr != ":9090" {
		t.Fatalf("expected port from env file, got %s", cfg.ListenAddr)
	}
	if cfg.DatabaseDriver != "postgres" || cfg.DatabaseDSN != "host=db user=habit" {
		t.Fatalf("unexpected database config: %+v", cfg)
	}
	if cfg.LogMethodReturns {
		t.Fatal("expected LOG_METHOD_RETURNS=false from env file")
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected environment to win over env file, got %s", cfg.LogLevel)
	}
}

func TestEnvBoolFallsBackOnGarbage(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "maybe")
	if !envBool("METRICS_ENABLED", true) {
		t.Fatal("expected fallback for an unparsable boolean")
	}
}
