package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pao.csv")
	csv := "Number,Person,Action,Object\n0,Alice,Run,Ball\n1,Bob,Jump,Car\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func TestBrowseCmdPrintsHeaderAndSummary(t *testing.T) {
	out := runCommand(t, "browse", "--data", writeTestDataset(t))
	for _, want := range []string{
		strings.Repeat("=", 60),
		"PAO Memory Trainer",
		"Total attempts: 0",
		"00: Alice → Run → Ball",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("browse output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Total attempts:") > strings.Index(out, "00: Alice") {
		t.Fatalf("summary not printed before the listing:\n%s", out)
	}
}

func TestStatsCmdPrintsHeaderAndSummary(t *testing.T) {
	out := runCommand(t, "stats", "--data", writeTestDataset(t))
	for _, want := range []string{
		"PAO Memory Trainer",
		"Overall accuracy: 0.0%",
		"Detailed Statistics",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("stats output missing %q:\n%s", want, out)
		}
	}
}
