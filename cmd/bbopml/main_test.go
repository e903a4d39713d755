package main

import (
	"os"
	"testing"
)

func TestRunHelp(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"bbopml", "--help"}
	t.Cleanup(func() {
		os.Args = oldArgs
	})
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	if code := run(); code != 0 {
		t.Fatalf("run() code = %d, want 0", code)
	}
}
