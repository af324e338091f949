// Package runtimecli is the thin os/exec wrapper around the container
// runtime binary (docker by default). It is the concrete stand-in for the
// external collaborator spec.md names explicitly: "the docker (or
// equivalent) binary itself". Everything above this package talks to it
// only through the methods below, never through exec.Command directly.
package runtimecli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// DefaultBinary is the runtime binary name used when none is configured.
const DefaultBinary = "docker"

// Runtime invokes a container runtime CLI as a subprocess.
type Runtime struct {
	// Binary is the runtime executable name or path. Empty means
	// DefaultBinary.
	Binary string
}

// New returns a Runtime that shells out to binary (DefaultBinary if empty).
func New(binary string) *Runtime {
	return &Runtime{Binary: binary}
}

func (r *Runtime) binary() string {
	if r.Binary == "" {
		return DefaultBinary
	}
	return r.Binary
}

// Name returns the runtime binary this Runtime invokes (DefaultBinary if
// unconfigured), for display in debug/echo output.
func (r *Runtime) Name() string {
	return r.binary()
}

// Command builds an *exec.Cmd for the runtime binary with the given
// already-assembled args, logging the invocation at debug level.
func (r *Runtime) Command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.binary(), args...)
	slog.DebugContext(ctx, "runtimecli.Command", "cmd", strings.Join(cmd.Args, " "))
	return cmd
}

// ImageID returns the image id currently associated with ref, and false if
// no such image exists. A non-existent image is not an error; any other
// failure to invoke the runtime is.
func (r *Runtime) ImageID(ctx context.Context, ref string) (id string, found bool, err error) {
	cmd := r.Command(ctx, "image", "inspect", "--format", "{{.Id}}", ref)
	out, err := cmd.Output()
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// `docker image inspect` on a missing tag exits non-zero; treat
			// that as "not found" rather than a hard failure.
			return "", false, nil
		}
		return "", false, fmt.Errorf("runtime image inspect: %w", err)
	}
	id = strings.TrimSpace(string(out))
	if strings.HasPrefix(id, "[") {
		// The runtime ignored --format and printed the full inspect JSON.
		if id, err = parseImageInspectJSON(out); err != nil {
			return "", false, fmt.Errorf("runtime image inspect: %w", err)
		}
	}
	if id == "" {
		return "", false, nil
	}
	return id, true, nil
}

// Build runs `<runtime> <args...>` (args already including "build" and all
// flags, per runtimearg.AssembleBuild) with cwd set to dir. When stream is
// true, build output is forwarded live to stdout/stderr; otherwise it is
// captured and written to stderr only on failure.
func (r *Runtime) Build(ctx context.Context, args []string, dir string, stream bool, stdout, stderr io.Writer) error {
	cmd := r.Command(ctx, args...)
	cmd.Dir = dir
	if stream {
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		return cmd.Run()
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		fmt.Fprint(stderr, string(out))
		return err
	}
	return nil
}

// RemoveImage removes an image by id, returning the runtime's raw error (if
// any) for the caller to classify (e.g. "still referenced" is a best-effort
// failure the rebuild engine downgrades to a warning).
func (r *Runtime) RemoveImage(ctx context.Context, imageID string) error {
	cmd := r.Command(ctx, "rmi", imageID)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Run starts `<runtime> <args...>` with the given stdio attached directly
// (no PTY). It does not wait for completion; callers that need PTY
// allocation or signal forwarding use the procexec package instead, which
// builds its own *exec.Cmd via Command.
func (r *Runtime) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (*exec.Cmd, error) {
	cmd := r.Command(ctx, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// imageInspectEntry models the single field of `docker image inspect` this
// package actually reads. ImageID asks for the id via --format, but some
// runtimes (and older Docker CLI releases) ignore --format for inspect
// subcommands and always emit JSON, which ImageID then decodes through this.
type imageInspectEntry struct {
	ID string `json:"Id"`
}

// parseImageInspectJSON is the fallback decoder ImageID uses for runtimes
// that ignore --format.
func parseImageInspectJSON(data []byte) (string, error) {
	var entries []imageInspectEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no image entries in inspect output")
	}
	return entries[0].ID, nil
}
