// Package runtimearg assembles the fully-ordered container-runtime argument
// vector for a build or run invocation. The ordering implemented here is
// contractual: given the same Project, environment, HostContext and
// options, it must produce byte-identical argv every time.
package runtimearg

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dockctl/dock/internal/config"
	"github.com/dockctl/dock/internal/hostctx"
	"github.com/dockctl/dock/internal/hostpath"
	"github.com/dockctl/dock/internal/imageref"
)

// mountLocalOrder is the fixed expansion order of mount_local entries,
// independent of the order they were declared in dock.yaml.
var mountLocalOrder = []string{"user", "group", "project_dir", "docker"}

// AssembleBuild produces the argv for a runtime `build` invocation:
//
//	build --force-rm <build_args...> -t <repository:tag> <buildContext>
//
// --force-rm is always injected: dock owns the intermediate container's
// lifetime, so it never wants orphaned intermediates left behind by a
// failed layer.
func AssembleBuild(env config.Environment, ref imageref.ImageRef, buildContext string) []string {
	args := make([]string, 0, len(env.BuildArgs)+5)
	args = append(args, "build", "--force-rm")
	args = append(args, env.BuildArgs...)
	args = append(args, "-t", ref.String(), buildContext)
	return args
}

// RunOptions carries the per-dispatch knobs that vary the `run` argv beyond
// what Project/Environment/HostContext fix.
type RunOptions struct {
	// TTY requests --interactive --tty.
	TTY bool
	// Shell indicates this is a `shell` dispatch, which additionally
	// requests --network=host.
	Shell bool
	// Command is the argv to run inside the container: the user's CMD, or
	// the environment's configured shell for a `shell` dispatch.
	Command []string
}

// AssembleRun produces the argv for a runtime `run` invocation and the
// HostPathMap that should be serialized into the child's DOCK_HOSTPATHS (nil
// if none applies). organisation/project name the image namespace and the
// cache-volume namespace.
func AssembleRun(organisation, project string, env config.Environment, hc *hostctx.HostContext, ref imageref.ImageRef, opts RunOptions) ([]string, hostpath.Map) {
	var args []string
	args = append(args, "run", "--rm", "--init")

	if opts.Shell {
		args = append(args, "--network=host")
	}
	if opts.TTY {
		args = append(args, "--interactive", "--tty")
	}
	if env.Workdir != "" {
		args = append(args, "--workdir="+env.Workdir)
	}

	outgoing := hc.HostPaths
	for _, kind := range mountLocalOrder {
		switch kind {
		case "user":
			if !env.HasMountLocal("user") {
				continue
			}
			user := strconv.Itoa(hc.UID)
			if env.HasMountLocal("group") {
				user += ":" + strconv.Itoa(hc.GID)
			}
			args = append(args, "--user="+user)
		case "group":
			// Consumed together with "user"; no independent argument.
		case "project_dir":
			if !env.HasMountLocal("project_dir") {
				continue
			}
			rebasedProjectDir := hc.HostPaths.Rebase(hc.ProjectDir)
			args = append(args, fmt.Sprintf("--mount=type=bind,src=%s,dst=%s", rebasedProjectDir, env.Workdir))
			if !outgoing.Has(rebasedProjectDir, env.Workdir) {
				outgoing = outgoing.Append(rebasedProjectDir, env.Workdir)
			}
		case "docker":
			if !env.HasMountLocal("docker") {
				continue
			}
			args = append(args, fmt.Sprintf("--mount=type=bind,src=%s,dst=%s", hc.DockerSocketPath, hc.DockerSocketPath))
			args = append(args, fmt.Sprintf("--group-add=%d", hc.DockerSocketGID))
		}
	}

	for _, kv := range env.CacheVolumes {
		volName := organisation + "." + project + ".cache." + kv.Key
		args = append(args, fmt.Sprintf("--mount=type=volume,src=%s,dst=%s", volName, kv.Value))
	}

	for _, kv := range env.Mounts {
		hostSrc := filepath.Join(hc.ProjectDir, kv.Key)
		rebasedSrc := hc.HostPaths.Rebase(hostSrc)
		args = append(args, fmt.Sprintf("--mount=type=bind,src=%s,dst=%s", rebasedSrc, kv.Value))
	}

	for _, kv := range env.Env {
		args = append(args, fmt.Sprintf("--env=%s=%s", kv.Key, kv.Value))
	}

	if len(outgoing) > 0 {
		args = append(args, "--env=DOCK_HOSTPATHS="+outgoing.Serialize())
	}

	args = append(args, env.RunArgs...)
	args = append(args, ref.String())
	args = append(args, opts.Command...)

	var propagated hostpath.Map
	if len(outgoing) > 0 {
		propagated = outgoing
	}
	return args, propagated
}

// CacheVolumeName returns the fully qualified runtime volume name for a
// cache volume short-name, embedding organisation/project to prevent
// cross-project collisions.
func CacheVolumeName(organisation, project, shortName string) string {
	return organisation + "." + project + ".cache." + shortName
}
