package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--log-mode", "test"}, args...))
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("roadmapctl %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestCLIAgainstSQLite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "roadmap.db"))
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("ADMIN_EMAIL", "")

	if out := runCLI(t, "migrate"); !strings.Contains(out, "migrations applied") {
		t.Fatalf("migrate output: %q", out)
	}
	if out := runCLI(t, "repair"); !strings.Contains(out, "initiative_phases_backfilled") {
		t.Fatalf("repair output: %q", out)
	}
	if out := runCLI(t, "user", "create", "--email", "Ops@Example.com", "--password", "long-enough", "--role", "editor"); !strings.Contains(out, "<ops@example.com> role=editor") {
		t.Fatalf("user create output: %q", out)
	}

	target := filepath.Join(dir, "out.xlsx")
	runCLI(t, "export", target, "--year", "2030")
	info, err := os.Stat(target)
	if err != nil || info.Size() == 0 {
		t.Fatalf("export file: err=%v", err)
	}
	if out := runCLI(t, "import", target); !strings.Contains(out, "created=0 skipped=0 errors=0") {
		t.Fatalf("import output: %q", out)
	}
}
