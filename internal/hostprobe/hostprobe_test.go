package hostprobe

import (
	"context"
	"os/exec"
	"testing"
)

func TestProbeToleratesMissingSocket(t *testing.T) {
	if _, err := exec.LookPath("id"); err != nil {
		t.Skip("id not available on this host")
	}

	// A missing docker socket must not fail the whole probe: only
	// environments that actually mount_local: [docker] ever read
	// DockerSocketGID, and this host may not run the daemon at all.
	hc, err := Probe(context.Background(), "/definitely/not/a/real/socket")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if hc.DockerSocketPath != "/definitely/not/a/real/socket" {
		t.Fatalf("DockerSocketPath = %q, want the probed path preserved", hc.DockerSocketPath)
	}
	if hc.DockerSocketGID != 0 {
		t.Fatalf("DockerSocketGID = %d, want 0 for an unreadable socket", hc.DockerSocketGID)
	}
}
