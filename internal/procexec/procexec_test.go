//go:build unix

package procexec

import (
	"os"
	"os/exec"
	"testing"
)

func TestWaitExitCodeSuccess(t *testing.T) {
	cmd := exec.Command("true")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot exec true: %v", err)
	}
	code, err := waitExitCode(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if code != 0 {
		t.Fatalf("got %d want 0", code)
	}
}

func TestWaitExitCodeNonZero(t *testing.T) {
	cmd := exec.Command("sh", "-c", "exit 7")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot exec sh: %v", err)
	}
	code, err := waitExitCode(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if code != 7 {
		t.Fatalf("got %d want 7", code)
	}
}

func TestIsTerminalFileNilIsFalse(t *testing.T) {
	if isTerminalFile(nil) {
		t.Fatal("nil file should not be a terminal")
	}
}

func TestIsTerminalFileRegularFileIsFalse(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "procexec")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if isTerminalFile(f) {
		t.Fatal("regular file should not be a terminal")
	}
}
