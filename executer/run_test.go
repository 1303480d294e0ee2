package executer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestRunScriptHostModeStreamsOutputAndExitCode(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "test.sh")
	if err := os.WriteFile(scriptPath, []byte("#!/bin/bash\necho hello\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	var log bytes.Buffer
	rc, err := RunScript(context.Background(), ModeHost, scriptPath, dir, "", "", &log)
	if err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if rc != 0 {
		t.Errorf("exit code = %d, want 0", rc)
	}
	if !bytes.Contains(log.Bytes(), []byte("hello")) {
		t.Errorf("log = %q, want it to contain %q", log.String(), "hello")
	}
}

func TestRunScriptHostModeReportsNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "fail.sh")
	if err := os.WriteFile(scriptPath, []byte("#!/bin/bash\nexit 7\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	var log bytes.Buffer
	rc, err := RunScript(context.Background(), ModeHost, scriptPath, dir, "", "", &log)
	if err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if rc != 7 {
		t.Errorf("exit code = %d, want 7", rc)
	}
}

func TestRunScriptPassesDestdirArgument(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "destdir.sh")
	if err := os.WriteFile(scriptPath, []byte("#!/bin/bash\necho \"got:$1\"\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	var log bytes.Buffer
	_, err := RunScript(context.Background(), ModeHost, scriptPath, dir, "", "/tmp/example-destdir", &log)
	if err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if !bytes.Contains(log.Bytes(), []byte("got:/tmp/example-destdir")) {
		t.Errorf("log = %q, want it to show the destdir argument", log.String())
	}
}
