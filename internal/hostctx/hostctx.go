// Package hostctx defines HostContext, the per-invocation snapshot of host
// facts threaded read-only through the rest of dock's pipeline.
package hostctx

import "github.com/dockctl/dock/internal/hostpath"

// DefaultDockerSocketPath is used when the host probe cannot otherwise
// determine the runtime socket path.
const DefaultDockerSocketPath = "/var/run/docker.sock"

// HostContext is captured once per invocation by the host probe (for UID,
// GID, docker socket facts and DOCK_HOSTPATHS) and the configuration loader
// (for ProjectDir), then treated as read-only for the remainder of the
// dispatch.
type HostContext struct {
	UID              int
	GID              int
	DockerSocketPath string
	DockerSocketGID  int
	ProjectDir       string
	HostPaths        hostpath.Map
}
