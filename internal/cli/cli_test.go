package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSeedAndInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.db")

	out, err := execute(t, "seed", "--env-file", "", "--log-level", "error", "--db", path,
		"--products", "5", "--customers", "2", "--transactions", "1", "--stores", "1",
		"--anchor", "2025-01-01", "--mode", "replace")
	t.Cleanup(resetSeedFlags)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if !strings.Contains(out, "5 products, 2 customers, 1 stores, 1 transactions") {
		t.Errorf("Unexpected seed output: %s", out)
	}

	out, err = execute(t, "info", "--env-file", "", "--log-level", "error", "--db", path)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{"Seeded: yes", "products", "fact_sales", "mode"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output lacks %q: %s", want, out)
		}
	}
	if strings.Contains(out, "seed_metadata") {
		t.Errorf("info should not list the metadata table: %s", out)
	}
}

func TestSeedRejectsInvalidOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.db")

	tests := []struct {
		name string
		args []string
	}{
		{"negative count", []string{"--stores=-1"}},
		{"unknown mode", []string{"--mode", "merge"}},
		{"bad anchor", []string{"--anchor", "soon"}},
		{"unknown weekday mode", []string{"--weekday-mode", "iso"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"seed", "--env-file", "", "--log-level", "error", "--db", path}, tt.args...)
			if _, err := execute(t, args...); err == nil {
				t.Error("Expected error, got nil")
			}
			resetSeedFlags()
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--env-file", "")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "pgedge-salesagent ") {
		t.Errorf("Unexpected version output: %s", out)
	}
}

// resetSeedFlags clears values and Changed marks left on the shared command.
func resetSeedFlags() {
	seedMode, seedAnchor, seedWeekdayMode, seedCustomerKeyMode = "", "", "", ""
	for _, name := range []string{"mode", "anchor", "weekday-mode", "customer-key-mode", "seed", "products", "customers", "transactions", "stores"} {
		f := seedCmd.Flags().Lookup(name)
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
}
