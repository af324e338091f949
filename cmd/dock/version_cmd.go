package main

import (
	"fmt"

	"github.com/dockctl/dock/internal/version"
)

// VersionCmd is `dock version`.
type VersionCmd struct{}

func (c *VersionCmd) Run(cctx *Context) error {
	v := version.Get()
	fmt.Printf("Git Repository: %s\n", v.GitRepo)
	fmt.Printf("Git Commit: %s\n", v.GitCommit)
	fmt.Printf("Build Time: %s\n", v.BuildTime)
	if v.BuildInfo == nil {
		fmt.Println("Build info not available")
		return nil
	}
	for _, setting := range v.BuildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if v.GitCommit == "" {
				fmt.Printf("Git Commit: %s\n", setting.Value)
			}
		case "vcs.time":
			if v.BuildTime == "" {
				fmt.Printf("Commit Time: %s\n", setting.Value)
			}
		case "vcs.modified":
			fmt.Printf("Modified: %s\n", setting.Value)
		}
	}
	return nil
}
