// Package hostprobe resolves the host facts dock needs to assemble a
// correct container-runtime invocation: the caller's UID/GID (via the
// external `id` utility), the Docker socket's owning group (via `stat`),
// and any inherited DOCK_HOSTPATHS nesting map.
package hostprobe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/dockctl/dock/internal/dockerr"
	"github.com/dockctl/dock/internal/hostctx"
	"github.com/dockctl/dock/internal/hostpath"
)

// Probe resolves a HostContext. socketPath is the Docker socket to stat for
// its owning group id; pass "" to use hostctx.DefaultDockerSocketPath. The
// returned HostContext's ProjectDir is left empty — the configuration
// loader, not the host probe, determines it.
func Probe(ctx context.Context, socketPath string) (*hostctx.HostContext, error) {
	if socketPath == "" {
		socketPath = hostctx.DefaultDockerSocketPath
	}

	uid, err := idNumber(ctx, "-u")
	if err != nil {
		return nil, &dockerr.HostProbeFailed{Which: "uid", Cause: err}
	}
	gid, err := idNumber(ctx, "-g")
	if err != nil {
		return nil, &dockerr.HostProbeFailed{Which: "gid", Cause: err}
	}
	// The socket is only needed when an environment actually declares
	// mount_local: [docker]; on a host that doesn't run the daemon at all
	// (or keeps the socket elsewhere), stat failing here must not block
	// dispatches that never reference DockerSocketGID. Leave it at 0:
	// environments without mount_local: [docker] emit no --group-add at
	// all, and one that does mount the socket gets --group-add=0.
	socketGID, err := socketGroupID(socketPath)
	if err != nil {
		slog.DebugContext(ctx, "hostprobe.Probe: docker socket unavailable, deferring",
			"path", socketPath, "err", err)
		socketGID = 0
	}

	paths, err := hostpath.Parse(os.Getenv("DOCK_HOSTPATHS"))
	if err != nil {
		return nil, err
	}

	hc := &hostctx.HostContext{
		UID:              uid,
		GID:              gid,
		DockerSocketPath: socketPath,
		DockerSocketGID:  socketGID,
		HostPaths:        paths,
	}
	slog.DebugContext(ctx, "hostprobe.Probe", "uid", uid, "gid", gid, "socketGID", socketGID, "hostPaths", paths)
	return hc, nil
}

// idNumber shells out to the `id` program, matching the external-collaborator
// contract spec.md names explicitly (Out of scope: "POSIX user/group lookup
// (`id` program)").
func idNumber(ctx context.Context, flag string) (int, error) {
	cmd := exec.CommandContext(ctx, "id", flag)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("id %s: %w", flag, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("id %s: unparseable output %q: %w", flag, out, err)
	}
	return n, nil
}

// socketGroupID stats the docker socket to find its owning group id.
func socketGroupID(path string) (int, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return statGID(fi)
}
