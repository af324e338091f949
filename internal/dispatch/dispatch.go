// Package dispatch composes the host probe, rebuild engine, cache-volume
// primer, argument assembler, and process orchestrator into the three
// entry points dock's command-line surface exposes: rebuild, run-in, and
// shell. It is the only package that knows the strict operation order
// host probe -> (optional) build -> (optional) cache priming -> run.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dockctl/dock/internal/cacheprime"
	"github.com/dockctl/dock/internal/config"
	"github.com/dockctl/dock/internal/dockerr"
	"github.com/dockctl/dock/internal/hostprobe"
	"github.com/dockctl/dock/internal/imageref"
	"github.com/dockctl/dock/internal/procexec"
	"github.com/dockctl/dock/internal/rebuild"
	"github.com/dockctl/dock/internal/runtimearg"
	"github.com/dockctl/dock/internal/runtimecli"
)

// Stdio bundles the three standard streams a dispatch talks to, so they can
// be swapped out in tests without touching the real os.Std* handles.
type Stdio struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// OSStdio returns the process's real standard streams.
func OSStdio() Stdio {
	return Stdio{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// RebuildOptions configures a standalone `dock rebuild` dispatch.
type RebuildOptions struct {
	// ImageArg is the "<image>[:<tag>]" CLI argument.
	ImageArg string
	// BuildArgs are the remaining CLI arguments, forwarded to the runtime
	// build invocation exactly as the user passed them — including the
	// trailing build context (or "-" for stdin), which must stay the final
	// positional token the way plain `docker build` expects it.
	BuildArgs []string
	Debug     bool
}

// Rebuild runs the standalone rebuild entry point: no configuration file is
// consulted, the image reference comes entirely from the CLI argument.
func Rebuild(ctx context.Context, rt *runtimecli.Runtime, opts RebuildOptions, streams Stdio) (int, error) {
	ref := imageref.Parse(opts.ImageArg)

	args := make([]string, 0, len(opts.BuildArgs)+4)
	args = append(args, "build", "--force-rm", "-t", ref.String())
	args = append(args, opts.BuildArgs...)

	if opts.Debug {
		fmt.Fprintln(streams.Stderr, "+", rt.Name(), strings.Join(args, " "))
	}

	result, err := rebuild.Run(ctx, rt, ref, rebuild.Options{
		Args:   args,
		Debug:  opts.Debug,
		Stdout: streams.Stdout,
		Stderr: streams.Stderr,
	})
	if err != nil {
		return dockerr.ExitCode(err), err
	}
	slog.InfoContext(ctx, "dispatch.Rebuild", "image", ref.String(), "prior_image_id", result.PriorImageID,
		"new_image_id", result.NewImageID, "removed_prior", result.Removed)
	return 0, nil
}

// RunInOptions configures a `dock run-in` dispatch.
type RunInOptions struct {
	// EnvArg is the environment name, bare or with the "-env:" suffix.
	EnvArg      string
	Command     []string
	Debug       bool
	SkipRebuild bool
	TTY         bool
	// StartDir is where the upward dock.yaml search begins (the process's
	// CWD in production).
	StartDir string
}

// environmentName strips the "-env:" scripting suffix if present.
func environmentName(arg string) string {
	return strings.TrimSuffix(arg, "-env:")
}

// RunIn runs the rebuild (unless skipped), cache priming (unless skipped or
// not applicable), and main container run for a named environment.
func RunIn(ctx context.Context, rt *runtimecli.Runtime, opts RunInOptions, streams Stdio) (int, error) {
	envName := environmentName(opts.EnvArg)

	project, projectDir, err := config.LoadProject(opts.StartDir)
	if err != nil {
		return dockerr.ExitCode(err), err
	}
	env, ok := project.Environments[envName]
	if !ok {
		err := &dockerr.UnknownEnvironment{Name: envName}
		return dockerr.ExitCode(err), err
	}

	hc, err := hostprobe.Probe(ctx, "")
	if err != nil {
		return dockerr.ExitCode(err), err
	}
	hc.ProjectDir = projectDir

	ref := imageref.ForEnvironment(project.Organisation, project.ProjectName, envName, "")

	if !opts.SkipRebuild {
		if code, err := runRebuildAndPrime(ctx, rt, project.Organisation, project.ProjectName, env, ref, projectDir, opts.Debug, streams); err != nil {
			return code, err
		}
	}

	runArgs, _ := runtimearg.AssembleRun(project.Organisation, project.ProjectName, env, hc, ref, runtimearg.RunOptions{
		TTY:     opts.TTY,
		Command: opts.Command,
	})
	if opts.Debug {
		fmt.Fprintln(streams.Stderr, "+", rt.Name(), strings.Join(runArgs, " "))
	}

	code, err := procexec.Run(ctx, rt, procexec.Options{
		Args:   runArgs,
		TTY:    opts.TTY,
		Stdin:  streams.Stdin,
		Stdout: streams.Stdout,
		Stderr: streams.Stderr,
	})
	if err != nil {
		return dockerr.ExitCode(err), err
	}
	return code, nil
}

// ShellOptions configures a `dock shell` dispatch.
type ShellOptions struct {
	// EnvArg is the environment name, or "" to use default_shell_env.
	EnvArg   string
	StartDir string
}

// Shell runs the configured shell for an environment with a TTY and
// --network=host, without rebuilding or priming: it is meant for quick
// re-entry into an already built image.
func Shell(ctx context.Context, rt *runtimecli.Runtime, opts ShellOptions, streams Stdio) (int, error) {
	project, projectDir, err := config.LoadProject(opts.StartDir)
	if err != nil {
		return dockerr.ExitCode(err), err
	}

	envName := opts.EnvArg
	if envName == "" {
		envName = project.DefaultShellEnv
	}
	env, ok := project.Environments[envName]
	if !ok {
		err := &dockerr.UnknownEnvironment{Name: envName}
		return dockerr.ExitCode(err), err
	}
	if env.Shell == "" {
		err := &dockerr.NoShellConfigured{Environment: envName}
		return dockerr.ExitCode(err), err
	}

	hc, err := hostprobe.Probe(ctx, "")
	if err != nil {
		return dockerr.ExitCode(err), err
	}
	hc.ProjectDir = projectDir

	ref := imageref.ForEnvironment(project.Organisation, project.ProjectName, envName, "")

	runArgs, _ := runtimearg.AssembleRun(project.Organisation, project.ProjectName, env, hc, ref, runtimearg.RunOptions{
		TTY:     true,
		Shell:   true,
		Command: []string{env.Shell},
	})

	code, err := procexec.Run(ctx, rt, procexec.Options{
		Args:   runArgs,
		TTY:    true,
		Stdin:  streams.Stdin,
		Stdout: streams.Stdout,
		Stderr: streams.Stderr,
	})
	if err != nil {
		return dockerr.ExitCode(err), err
	}
	return code, nil
}

// runRebuildAndPrime performs §4.E then §4.F for a run-in dispatch.
func runRebuildAndPrime(ctx context.Context, rt *runtimecli.Runtime, organisation, project string, env config.Environment, ref imageref.ImageRef, projectDir string, debug bool, streams Stdio) (int, error) {
	buildArgs := runtimearg.AssembleBuild(env, ref, projectDir)
	if debug {
		fmt.Fprintln(streams.Stderr, "+", rt.Name(), strings.Join(buildArgs, " "))
	}

	if _, err := rebuild.Run(ctx, rt, ref, rebuild.Options{
		Args:   buildArgs,
		Debug:  debug,
		Stdout: streams.Stdout,
		Stderr: streams.Stderr,
	}); err != nil {
		return dockerr.ExitCode(err), err
	}

	if err := cacheprime.Prime(ctx, rt, organisation, project, env, ref); err != nil {
		return dockerr.ExitCode(err), err
	}
	return 0, nil
}
