package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"driftwatch/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig("host-test", t.TempDir())
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return cfg
}

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestApp_ScanReportHistory(t *testing.T) {
	cfg := testConfig(t)
	target := t.TempDir()
	writeFile(t, target, "a.txt", "alpha")

	a, err := NewApp(cfg, OpScan)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	if _, err := a.Scan(target); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	writeFile(t, target, "b.txt", "beta")
	result, err := a.Scan(target)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if result.FileCount != 2 {
		t.Errorf("FileCount = %d, want 2", result.FileCount)
	}
	if result.Name == "" {
		t.Error("ScanResult.Name is empty")
	}

	report, err := a.Report(target)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if !strings.Contains(report, "+ b.txt\n") {
		t.Errorf("report = %q, want it to contain %q", report, "+ b.txt\n")
	}
	if strings.Contains(report, "a.txt") {
		t.Errorf("report = %q mentions the unchanged file", report)
	}

	ops, err := a.History(10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("History() returned %d operations, want 2", len(ops))
	}
	if ops[0].Operation != "scan" {
		t.Errorf("Operation = %q, want %q", ops[0].Operation, "scan")
	}
	if ops[0].Status != "success" {
		t.Errorf("Status = %q, want %q", ops[0].Status, "success")
	}

	if err := a.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestApp_WriteReport(t *testing.T) {
	cfg := testConfig(t)

	a, err := NewApp(cfg, OpHistory)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	defer a.Close()

	t.Run("writes the report to a file", func(t *testing.T) {
		report := "1970-01-02 00:00:00 UTC\n+ c.txt\n\n"
		out := filepath.Join(t.TempDir(), "report.txt")
		if err := a.WriteReport(report, out); err != nil {
			t.Fatalf("WriteReport() error = %v", err)
		}

		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("reading report file: %v", err)
		}
		if string(data) != report {
			t.Errorf("report file = %q, want %q", data, report)
		}
	})

	t.Run("empty report truncates a stale file", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "report.txt")
		stale := "1970-01-02 00:00:00 UTC\n+ old.txt\n\n"
		if err := os.WriteFile(out, []byte(stale), 0o644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		if err := a.WriteReport("", out); err != nil {
			t.Fatalf("WriteReport() error = %v", err)
		}

		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("reading report file: %v", err)
		}
		if len(data) != 0 {
			t.Errorf("report file = %q, want empty", data)
		}
	})
}

func TestApp_EncryptedStore(t *testing.T) {
	t.Setenv("DRIFTWATCH_PASSPHRASE", "secret")

	cfg := testConfig(t)
	cfg.Encryption.Type = "test"

	target := t.TempDir()
	writeFile(t, target, "a.txt", "alpha")

	a, err := NewApp(cfg, OpScan)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	defer a.Close()

	if _, err := a.Scan(target); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	sealed, err := filepath.Glob(filepath.Join(cfg.Store.Path, "snapshot-*.json.age"))
	if err != nil {
		t.Fatal(err)
	}
	if len(sealed) != 1 {
		t.Errorf("sealed records = %d, want 1", len(sealed))
	}
	plain, err := filepath.Glob(filepath.Join(cfg.Store.Path, "snapshot-*.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(plain) != 0 {
		t.Errorf("plaintext records = %d, want 0", len(plain))
	}

	writeFile(t, target, "b.txt", "beta")
	if _, err := a.Scan(target); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	report, err := a.Report(target)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if !strings.Contains(report, "+ b.txt\n") {
		t.Errorf("report = %q, want it to contain %q", report, "+ b.txt\n")
	}
}

func TestKeygen(t *testing.T) {
	t.Run("encryption disabled", func(t *testing.T) {
		cfg := testConfig(t)

		err := Keygen(cfg)
		if err == nil || !strings.Contains(err.Error(), "disabled") {
			t.Errorf("Keygen() error = %v, want encryption-disabled error", err)
		}
	})

	t.Run("refuses to overwrite existing key pair", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Encryption.Type = "test"

		err := Keygen(cfg)
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("Keygen() error = %v, want already-exists error", err)
		}
	})
}
