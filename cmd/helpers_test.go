package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// setupTestEnv points every XDG dir at a temp dir so commands touch an
// isolated config file and database.
func setupTestEnv(t *testing.T) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp+"/config")
	t.Setenv("XDG_DATA_HOME", tmp+"/data")
	t.Setenv("XDG_CACHE_HOME", tmp+"/cache")
	t.Setenv("XDG_STATE_HOME", tmp+"/state")
}

// captureOutput runs fn with stdout redirected and returns what it printed.
func captureOutput(t *testing.T, fn func() error) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)

	if runErr != nil {
		t.Fatalf("command failed: %v\noutput: %s", runErr, buf.String())
	}
	return buf.String()
}
