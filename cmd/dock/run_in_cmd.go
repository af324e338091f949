package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dockctl/dock/internal/dispatch"
)

// RunInCmd is `dock run-in <env>[-env:] [flags] CMD...`.
type RunInCmd struct {
	Env         string   `arg:"" help:"environment name, optionally suffixed with -env: for scripting"`
	Debug       bool     `short:"D" help:"stream build output; echo runtime commands to stderr"`
	SkipRebuild bool     `short:"R" name:"skip-rebuild" help:"skip the rebuild and cache-priming steps"`
	TTY         bool     `short:"T" help:"allocate a pseudo-terminal for the command"`
	Command     []string `arg:"" passthrough:"" help:"command to run inside the container"`
}

func (c *RunInCmd) Run(cctx *Context) error {
	code, err := dispatch.RunIn(context.Background(), cctx.Runtime, dispatch.RunInOptions{
		EnvArg:      c.Env,
		Command:     c.Command,
		Debug:       c.Debug || cctx.Debug,
		SkipRebuild: c.SkipRebuild,
		TTY:         c.TTY,
		StartDir:    cctx.StartDir,
	}, dispatch.OSStdio())
	if err != nil {
		fmt.Fprintln(os.Stderr, "dock run-in:", err)
	}
	os.Exit(code)
	return nil
}
