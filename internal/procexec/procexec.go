//go:build unix

// Package procexec spawns the container runtime binary as a child process
// and manages its stdio, optional PTY allocation, and signal forwarding,
// matching the single in-flight child model the rest of dock assumes.
package procexec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/dockctl/dock/internal/dockerr"
	"github.com/dockctl/dock/internal/runtimecli"
)

// Options controls a single spawn of the runtime binary.
type Options struct {
	// Args is the full runtime argv, as produced by runtimearg.AssembleRun.
	Args []string

	// TTY requests PTY allocation; it only takes effect when both Stdin and
	// Stdout resolve to an *os.File attached to a terminal.
	TTY bool

	// Captured collects stdout and stderr together and, only on failure,
	// copies the combined output to Stderr (used for build output in
	// non-debug mode). Ignored when TTY allocation is in effect.
	Captured bool

	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// Run spawns the runtime binary with opts.Args and blocks until it exits,
// returning the exit code the parent process should itself exit with: the
// child's own exit code, or 128+signum if the child died from a signal.
func Run(ctx context.Context, rt *runtimecli.Runtime, opts Options) (int, error) {
	cmd := rt.Command(ctx, opts.Args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	usePTY := opts.TTY && isTerminalFile(opts.Stdin) && isTerminalFile(opts.Stdout)

	switch {
	case usePTY:
		return runWithPTY(ctx, cmd, opts)
	case opts.Captured:
		return runCaptured(cmd, opts)
	default:
		return runInherited(cmd, opts)
	}
}

func isTerminalFile(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

func runInherited(cmd *exec.Cmd, opts Options) (int, error) {
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Start(); err != nil {
		return 0, &dockerr.RuntimeSpawnFailed{Cause: err}
	}
	stop := forwardSignals(cmd)
	defer stop()
	return waitExitCode(cmd)
}

func runCaptured(cmd *exec.Cmd, opts Options) (int, error) {
	var buf bytes.Buffer
	cmd.Stdin = opts.Stdin
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	if err := cmd.Start(); err != nil {
		return 0, &dockerr.RuntimeSpawnFailed{Cause: err}
	}
	stop := forwardSignals(cmd)
	defer stop()
	code, err := waitExitCode(cmd)
	if code != 0 {
		io.Copy(opts.Stderr, &buf)
	}
	return code, err
}

func runWithPTY(ctx context.Context, cmd *exec.Cmd, opts Options) (int, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return 0, &dockerr.RuntimeSpawnFailed{Cause: err}
	}
	defer ptmx.Close()

	pty.InheritSize(opts.Stdin, ptmx)

	if oldState, err := term.MakeRaw(int(opts.Stdin.Fd())); err == nil {
		defer term.Restore(int(opts.Stdin.Fd()), oldState)
	}

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer signal.Stop(winch)
	go func() {
		for range winch {
			pty.InheritSize(opts.Stdin, ptmx)
		}
	}()

	stop := forwardSignals(cmd)
	defer stop()

	// The stdin relay is not waited on: its blocking read of Stdin cannot be
	// interrupted when the child exits, so it ends on its own once Stdin is
	// closed or its next write to the master fails.
	go func() { _, _ = io.Copy(ptmx, opts.Stdin) }()

	var relay errgroup.Group
	relay.Go(func() error {
		_, err := io.Copy(opts.Stdout, ptmx)
		return err
	})

	code, waitErr := waitExitCode(cmd)
	// The master side returns an I/O error once the child exits and closes
	// its slave; that's expected and not a real relay failure.
	_ = relay.Wait()
	return code, waitErr
}

// forwardSignals relays SIGINT/SIGTERM received by the parent to the
// child's process group, and returns a func to stop listening.
func forwardSignals(cmd *exec.Cmd) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigs:
				if cmd.Process != nil {
					syscall.Kill(-cmd.Process.Pid, sig.(syscall.Signal))
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// waitExitCode waits for cmd and translates its terminal state into the
// exit code the parent should itself exit with.
func waitExitCode(cmd *exec.Cmd) (int, error) {
	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return 128 + int(status.Signal()), nil
		}
		return exitErr.ExitCode(), nil
	}
	return 0, &dockerr.RuntimeSpawnFailed{Cause: err}
}
