// Package cacheprime runs the short-lived "chmod the new volume" containers
// that make freshly created cache volumes writable to the unprivileged user
// the main container will run as.
package cacheprime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goombaio/namegenerator"

	"github.com/dockctl/dock/internal/config"
	"github.com/dockctl/dock/internal/dockerr"
	"github.com/dockctl/dock/internal/imageref"
	"github.com/dockctl/dock/internal/runtimearg"
	"github.com/dockctl/dock/internal/runtimecli"
)

// Prime runs one priming container per declared cache volume, in
// configuration order, each mounting only that volume and executing
// `chmod 0777 <path>`. It returns on the first failure; volumes primed
// before that point have already had their containers run to completion.
func Prime(ctx context.Context, rt *runtimecli.Runtime, organisation, project string, env config.Environment, ref imageref.ImageRef) error {
	if len(env.CacheVolumes) == 0 {
		return nil
	}

	seed := time.Now().UTC().UnixNano()
	namer := namegenerator.NewNameGenerator(seed)

	for _, kv := range env.CacheVolumes {
		args := primeArgs(organisation, project, kv.Key, kv.Value, namer.Generate(), ref)

		cmd := rt.Command(ctx, args...)
		out, err := cmd.CombinedOutput()
		if err != nil {
			return &dockerr.CacheVolumePrimingFailed{
				Volume: kv.Key,
				Cause:  fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out))),
			}
		}
	}
	return nil
}

// primeArgs builds the argv for a single volume's priming container.
func primeArgs(organisation, project, shortName, path, containerName string, ref imageref.ImageRef) []string {
	volName := runtimearg.CacheVolumeName(organisation, project, shortName)
	return []string{
		"run", "--rm",
		"--name=" + containerName,
		fmt.Sprintf("--mount=type=volume,src=%s,dst=%s", volName, path),
		ref.String(),
		"chmod", "0777", path,
	}
}
