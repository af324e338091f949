// Package rebuild implements the build-then-garbage-collect sequence that
// backs both the standalone `dock rebuild` command and the rebuild step of
// `dock run-in`: build a new image for a tag, and if that succeeds, remove
// whatever image the tag pointed to beforehand.
package rebuild

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/dockctl/dock/internal/dockerr"
	"github.com/dockctl/dock/internal/imageref"
	"github.com/dockctl/dock/internal/runtimecli"
)

// Options controls a single rebuild invocation.
type Options struct {
	// Args is the full runtime argv, as produced by runtimearg.AssembleBuild
	// (or assembled directly from CLI passthrough for a standalone rebuild),
	// including the trailing build context.
	Args []string
	// Debug streams build output to Stdout/Stderr live instead of
	// suppressing it unless the build fails.
	Debug  bool
	Stdout io.Writer
	Stderr io.Writer
}

// Result reports what the rebuild did, for the dispatcher to log or use when
// deciding whether to re-tag downstream.
type Result struct {
	PriorImageID string
	NewImageID   string
	Removed      bool
}

// Run executes the sequence described in the rebuild engine's contract:
// snapshot the tag's current image id, build, snapshot again, and garbage
// collect the prior id on success.
func Run(ctx context.Context, rt *runtimecli.Runtime, ref imageref.ImageRef, opts Options) (Result, error) {
	var result Result

	priorID, found, err := rt.ImageID(ctx, ref.String())
	if err != nil {
		return result, err
	}
	if found {
		result.PriorImageID = priorID
	}

	if err := rt.Build(ctx, opts.Args, "", opts.Debug, opts.Stdout, opts.Stderr); err != nil {
		return result, &dockerr.BuildFailed{ExitCode: exitCodeOf(err)}
	}

	newID, found, err := rt.ImageID(ctx, ref.String())
	if err != nil {
		return result, err
	}
	if found {
		result.NewImageID = newID
	}

	if result.PriorImageID != "" && result.PriorImageID != result.NewImageID {
		if err := rt.RemoveImage(ctx, result.PriorImageID); err != nil {
			if stillInUse(err) {
				slog.WarnContext(ctx, "prior image still referenced, leaving in place",
					"image_id", result.PriorImageID, "cause", err)
			} else {
				return result, &dockerr.PriorImageRemovalFailed{ImageID: result.PriorImageID, Cause: err}
			}
		} else {
			result.Removed = true
		}
	}

	return result, nil
}

// exitCodeOf recovers the child process's own exit status, defaulting to 1
// when the failure wasn't a clean non-zero exit (e.g. the runtime binary
// itself could not be started).
func exitCodeOf(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

// stillInUse recognizes the runtime's "image is referenced" family of
// removal failures, which the rebuild engine treats as best-effort cleanup
// rather than a hard error.
func stillInUse(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "referenced") ||
		strings.Contains(msg, "is being used") ||
		strings.Contains(msg, "has dependent child images") ||
		strings.Contains(msg, "container is using its referenced image")
}
