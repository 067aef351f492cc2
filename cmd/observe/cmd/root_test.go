package cmd

import (
	"bytes"
	stderrors "errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/observe/pkg/errors"
)

// capture redirects the CLI output streams for the duration of a test.
func capture(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	oldOut, oldErr := stdout, stderr
	stdout, stderr = out, errOut
	t.Cleanup(func() {
		stdout, stderr = oldOut, oldErr
		errors.SetHandler(nil)
	})
	return out, errOut
}

func TestExecute_Help(t *testing.T) {
	for _, args := range [][]string{nil, {"-h"}, {"help"}} {
		out, _ := capture(t)
		if err := Execute(args); err != nil {
			t.Fatalf("Execute(%v) failed: %v", args, err)
		}
		for _, want := range []string{"Usage:", "demo", "run"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("Execute(%v) help should mention %q", args, want)
			}
		}
	}
}

func TestExecute_Version(t *testing.T) {
	out, _ := capture(t)
	if err := Execute([]string{"--version"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out.String(), Version) {
		t.Errorf("Expected version %s in %q", Version, out.String())
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	_, errOut := capture(t)
	err := Execute([]string{"explode"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(errOut.String(), `unknown command "explode"`) {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
}

func TestExecute_CommandHelp(t *testing.T) {
	out, _ := capture(t)
	if err := Execute([]string{"run", "--help"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	for _, want := range []string{"observe run", "--output", "--verbosity"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("command help should mention %q, got:\n%s", want, out.String())
		}
	}
}

func TestDemo(t *testing.T) {
	out, _ := capture(t)
	if err := Execute([]string{"demo"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	want := strings.Join([]string{
		"-- concrete observers --",
		"obs1, 6",
		"obs2, 6",
		"obs3, 6",
		"obs1, 7",
		"obs2, 7",
		"",
		"-- boxed observers --",
		"obs1, 200",
		"obs2, 200",
		"obs3, 200",
		"obs1, 210",
		"obs2, 210",
	}, "\n") + "\n"
	if out.String() != want {
		t.Errorf("Output:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestRun(t *testing.T) {
	out, errOut := capture(t)
	chartPath := filepath.Join(t.TempDir(), "chart.png")

	err := Execute([]string{"run", "-v", "info", "-o", chartPath, filepath.Join("testdata", "observer_goes_away.yaml")})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 7 {
		t.Errorf("Expected 7 update lines, got %d: %q", len(lines), out.String())
	}
	if lines[len(lines)-1] != "obs2, 12" {
		t.Errorf("Expected last line 'obs2, 12', got %q", lines[len(lines)-1])
	}
	if !strings.Contains(errOut.String(), "scenario complete") {
		t.Errorf("Expected an info log line, got %q", errOut.String())
	}

	f, err := os.Open(chartPath)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("chart is not a PNG: %v", err)
	}
}

func TestRun_MissingScenario(t *testing.T) {
	capture(t)
	err := Execute([]string{"run"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "SCENARIO") {
		t.Errorf("error %q should name the missing argument", err.Error())
	}
}

func TestRun_VersionTooOld(t *testing.T) {
	capture(t)
	err := Execute([]string{"run", filepath.Join("testdata", "too_new.yaml")})

	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T: %v", err, err)
	}
	if e.Kind != errors.KindVersion {
		t.Errorf("Kind = %v, want version", e.Kind)
	}
}

func TestRun_BadVerbosity(t *testing.T) {
	capture(t)
	err := Execute([]string{"run", "-v", "loud", filepath.Join("testdata", "observer_goes_away.yaml")})
	if err == nil {
		t.Fatal("expected an error for an unknown log level")
	}
}
