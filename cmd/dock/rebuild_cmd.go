package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dockctl/dock/internal/dispatch"
)

// RebuildCmd is `dock rebuild <image>[:<tag>] [ARGS...]`. The remaining
// arguments are forwarded to the runtime build invocation exactly as given,
// including the trailing build context (or "-" for stdin).
type RebuildCmd struct {
	Image     string   `arg:"" help:"image name, optionally with :tag"`
	BuildArgs []string `arg:"" optional:"" passthrough:"" help:"docker build arguments, ending with the build context (or - for stdin)"`
}

func (c *RebuildCmd) Run(cctx *Context) error {
	code, err := dispatch.Rebuild(context.Background(), cctx.Runtime, dispatch.RebuildOptions{
		ImageArg:  c.Image,
		BuildArgs: c.BuildArgs,
		Debug:     cctx.Debug,
	}, dispatch.OSStdio())
	if err != nil {
		fmt.Fprintln(os.Stderr, "dock rebuild:", err)
	}
	os.Exit(code)
	return nil
}
