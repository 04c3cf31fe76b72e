package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupStore points the CLI at a fresh local store and an empty working dir.
func setupStore(t *testing.T) string {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{"CONTACTOS_CONFIG", "DATABASE_URL", "STORE_KEY", "SEED_CONTACTS", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv("STORE_DRIVER", "local")
	t.Setenv("STORE_PATH", dir)
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	a := &app{}
	root := newRootCmd(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	if cerr := a.close(); cerr != nil {
		t.Fatalf("close: %v", cerr)
	}
	return out.String(), err
}

func TestList_SeedsEmptyStore(t *testing.T) {
	dir := setupStore(t)

	out, err := run(t, "", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"Ana García", "Carlos López", "María Rodríguez", "Total: 3 contactos | Mostrando: 3 | Contactados: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "contactos.json")); err != nil {
		t.Errorf("expected seed to be saved: %v", err)
	}
}

func TestList_Search(t *testing.T) {
	setupStore(t)

	out, err := run(t, "", "list", "--search", "carlos")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Carlos López") || strings.Contains(out, "Ana García") {
		t.Errorf("unexpected filtered output:\n%s", out)
	}

	out, _ = run(t, "", "list", "-s", "zzz")
	if !strings.Contains(out, `Ningún contacto coincide con "zzz"`) {
		t.Errorf("expected no-match message, got:\n%s", out)
	}
}

func TestList_NoSeed(t *testing.T) {
	setupStore(t)
	t.Setenv("SEED_CONTACTS", "false")

	out, err := run(t, "", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "No hay contactos.") {
		t.Errorf("expected empty message, got:\n%s", out)
	}
}

func TestAdd_PersistsAcrossRuns(t *testing.T) {
	setupStore(t)

	out, err := run(t, "", "add", "--name", "  Lucía Pérez ", "--phone", "555-0004")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Contacto agregado: Lucía Pérez (555-0004)") {
		t.Errorf("unexpected add output: %s", out)
	}

	out, _ = run(t, "", "stats")
	if !strings.Contains(out, "Total: 4 contactos") {
		t.Errorf("expected 4 contacts after add, got: %s", out)
	}
}

func TestAdd_Rejections(t *testing.T) {
	setupStore(t)

	_, err := run(t, "", "add", "--name", "ANA GARCÍA", "--phone", "555-9999")
	if err == nil || !strings.Contains(err.Error(), "ya existe") {
		t.Errorf("expected duplicate error, got %v", err)
	}

	_, err = run(t, "", "add", "--name", "B", "--phone", "123")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if want := "datos inválidos: name: name too short, phone: phone too short"; err.Error() != want {
		t.Errorf("want %q, got %q", want, err.Error())
	}

	out, _ := run(t, "", "stats")
	if !strings.Contains(out, "Total: 3 contactos") {
		t.Errorf("rejected adds must not change the collection: %s", out)
	}
}

func TestRm_Confirmation(t *testing.T) {
	setupStore(t)

	out, err := run(t, "n\n", "rm", "1")
	if err != nil {
		t.Fatalf("rm: %v", err)
	}
	if !strings.Contains(out, `¿Estás seguro de eliminar a "Ana García"?`) || !strings.Contains(out, "Cancelado.") {
		t.Errorf("expected prompt and cancel, got: %s", out)
	}

	out, err = run(t, "s\n", "rm", "1")
	if err != nil {
		t.Fatalf("rm: %v", err)
	}
	if !strings.Contains(out, "Contacto eliminado: Ana García") {
		t.Errorf("expected removal, got: %s", out)
	}

	out, err = run(t, "", "rm", "--yes", "3")
	if err != nil {
		t.Fatalf("rm --yes: %v", err)
	}
	if strings.Contains(out, "¿Estás seguro") {
		t.Errorf("--yes must not prompt: %s", out)
	}

	out, _ = run(t, "", "list")
	if strings.Contains(out, "Ana García") || strings.Contains(out, "María Rodríguez") || !strings.Contains(out, "Carlos López") {
		t.Errorf("unexpected remaining contacts:\n%s", out)
	}
}

func TestRm_UnknownAndInvalidID(t *testing.T) {
	setupStore(t)

	if _, err := run(t, "", "rm", "--yes", "42"); err == nil || !strings.Contains(err.Error(), "42") {
		t.Errorf("expected not-found error, got %v", err)
	}
	if _, err := run(t, "", "rm", "abc"); err == nil {
		t.Error("expected invalid id error")
	}
}

func TestToggle(t *testing.T) {
	setupStore(t)

	out, err := run(t, "", "toggle", "2")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if strings.TrimSpace(out) != "Carlos López: pendiente" {
		t.Errorf("unexpected toggle output %q", out)
	}

	out, _ = run(t, "", "stats")
	if !strings.Contains(out, "Contactados: 0") {
		t.Errorf("expected toggle to persist, got: %s", out)
	}

	if _, err := run(t, "", "toggle", "99"); err == nil {
		t.Error("expected not-found error")
	}
}

func TestStats_Search(t *testing.T) {
	setupStore(t)

	out, err := run(t, "", "stats", "--search", "555-0003")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if strings.TrimSpace(out) != "Total: 3 contactos | Mostrando: 1 | Contactados: 1" {
		t.Errorf("unexpected stats %q", out)
	}
}

func TestConfirmed(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"s\n", true},
		{"Sí\n", true},
		{"yes", true},
		{"\n", false},
		{"no\n", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := confirmed(strings.NewReader(tt.in)); got != tt.want {
			t.Errorf("confirmed(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReset_ClearsStoredList(t *testing.T) {
	dir := setupStore(t)

	if _, err := run(t, "", "add", "--name", "Lucía Pérez", "--phone", "555-0004"); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, err := run(t, "n\n", "reset")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !strings.Contains(out, "¿Borrar los 4 contactos guardados?") || !strings.Contains(out, "Cancelado.") {
		t.Errorf("expected prompt and cancel, got: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "contactos.json")); err != nil {
		t.Fatalf("cancelled reset must keep the slot: %v", err)
	}

	out, err = run(t, "", "reset", "--yes")
	if err != nil {
		t.Fatalf("reset --yes: %v", err)
	}
	if !strings.Contains(out, "Contactos borrados.") {
		t.Errorf("unexpected reset output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "contactos.json")); !os.IsNotExist(err) {
		t.Errorf("expected the slot file to be gone, got %v", err)
	}

	// the next run starts again from the sample contacts
	out, _ = run(t, "", "stats")
	if !strings.Contains(out, "Total: 3 contactos") {
		t.Errorf("expected seed after reset, got: %s", out)
	}
}
