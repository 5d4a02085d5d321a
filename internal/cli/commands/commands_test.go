package commands

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"

	"github.com/dshills/draftsnap/internal/scenario"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := App()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"draftsnap"}, args...))
	return out.String(), err
}

func TestAppCommands(t *testing.T) {
	app := App()
	names := make(map[string]bool)
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"draw", "replay", "version"} {
		if !names[want] {
			t.Errorf("missing command: %s", want)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "draftsnap dev\n") {
		t.Errorf("output = %q", out)
	}
}

func TestReplayDirectory(t *testing.T) {
	out, err := runApp(t, "--log-level", "error", "replay", filepath.Join("..", "..", "scenario", "testdata"))
	if err != nil {
		t.Fatalf("replay error = %v\n%s", err, out)
	}
	var sum scenario.Summary
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(out), &sum); err != nil {
		t.Fatal(err)
	}
	if sum.Failed != 0 || sum.Passed != len(sum.Reports) || sum.Passed == 0 {
		t.Errorf("passed %d failed %d of %d", sum.Passed, sum.Failed, len(sum.Reports))
	}
}

func TestReplayFailures(t *testing.T) {
	dir := t.TempDir()
	failing := filepath.Join(dir, "a.yaml")
	broken := filepath.Join(dir, "b.json")
	if err := os.WriteFile(failing, []byte("name: no commit\ncommand: create.line\nevents:\n  - key: Esc\nexpect:\n  outcome: committed\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(broken, []byte(`{"name": `), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skipped"), 0o600); err != nil {
		t.Fatal(err)
	}

	logFile := filepath.Join(dir, "replay.log")
	out, err := runApp(t, "--log-file", logFile, "--log-level", "debug", "replay", dir)
	if !errors.Is(err, scenario.ErrFailed) {
		t.Fatalf("replay error = %v, want ErrFailed", err)
	}

	var sum scenario.Summary
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(out), &sum); err != nil {
		t.Fatal(err)
	}
	if len(sum.Reports) != 2 || sum.Failed != 2 {
		t.Fatalf("reports %d failed %d, want 2 and 2", len(sum.Reports), sum.Failed)
	}
	if sum.Reports[0].Name != "no commit" || len(sum.Reports[0].Failures) != 1 {
		t.Errorf("first report = %+v", sum.Reports[0])
	}
	if sum.Reports[1].Name != broken || sum.Reports[1].Error == "" {
		t.Errorf("second report = %+v", sum.Reports[1])
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "scenario started") {
		t.Errorf("log file does not record the run:\n%s", data)
	}
}

func TestReplayErrors(t *testing.T) {
	if _, err := runApp(t, "replay"); err == nil {
		t.Error("replay without files should fail")
	}
	if _, err := runApp(t, "replay", filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}
