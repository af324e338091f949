package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dockctl/dock/internal/dispatch"
)

// ShellCmd is `dock shell [env]`.
type ShellCmd struct {
	Env string `arg:"" optional:"" help:"environment name; defaults to default_shell_env"`
}

func (c *ShellCmd) Run(cctx *Context) error {
	code, err := dispatch.Shell(context.Background(), cctx.Runtime, dispatch.ShellOptions{
		EnvArg:   c.Env,
		StartDir: cctx.StartDir,
	}, dispatch.OSStdio())
	if err != nil {
		fmt.Fprintln(os.Stderr, "dock shell:", err)
	}
	os.Exit(code)
	return nil
}
