package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cintyy73/template-todo-list/internal/storage"
)

// clearEnv unsets every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONTACTOS_CONFIG", "ADDR", "FRONTEND_URL", "STORE_DRIVER", "STORE_PATH",
		"DATABASE_URL", "STORE_KEY", "LOG_LEVEL", "LOG_FORMAT", "SEED_CONTACTS",
	} {
		t.Setenv(k, "")
	}
	// keep godotenv from picking up a developer .env
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "contactos.yaml")
	yml := `
addr: ":9090"
store:
  driver: bolt
  path: /var/lib/contactos/contactos.db
log:
  level: debug
seed: false
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ADDR", ":7070")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr != ":7070" {
		t.Errorf("expected env to override file addr, got %q", cfg.Addr)
	}
	if cfg.Store.Driver != storage.DriverBolt || cfg.Store.Path != "/var/lib/contactos/contactos.db" {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Store.Key != "contactos" {
		t.Errorf("expected default key to survive partial file, got %q", cfg.Store.Key)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Seed {
		t.Error("expected seed=false from file")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// clearEnv set the variables to "", which godotenv treats as already set
	os.Unsetenv("STORE_DRIVER")
	os.Unsetenv("SEED_CONTACTS")

	if err := os.WriteFile(".env", []byte("STORE_DRIVER=sqlite\nSEED_CONTACTS=false\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("STORE_DRIVER")
		os.Unsetenv("SEED_CONTACTS")
	})

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != storage.DriverSQLite {
		t.Errorf("expected sqlite from .env, got %q", cfg.Store.Driver)
	}
	if cfg.Seed {
		t.Error("expected seed=false from .env")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "redis"}},
		{name: "postgres without dsn", env: map[string]string{"STORE_DRIVER": "postgres"}},
		{name: "bad seed flag", env: map[string]string{"SEED_CONTACTS": "maybe"}},
		{name: "missing file", file: "does-not-exist.yaml"},
		{name: "bad yaml", file: "bad.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := tt.file
			if path == "bad.yaml" {
				path = filepath.Join(t.TempDir(), "bad.yaml")
				_ = os.WriteFile(path, []byte("store: [unclosed"), 0o600)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStorageOptions(t *testing.T) {
	cfg := Default()
	cfg.Store = StoreConfig{Driver: storage.DriverPostgres, DSN: "postgres://x", Path: "p", Key: "k"}

	want := storage.Options{Driver: storage.DriverPostgres, Path: "p", DSN: "postgres://x"}
	if diff := cmp.Diff(want, cfg.StorageOptions()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
