// Package dockerr defines the error taxonomy shared across dock's components
// and the exit codes the command dispatcher maps them to.
package dockerr

import "fmt"

// Exit codes, per the CLI surface contract: 0 success, 1 configuration/validation,
// 2 host-probe/host-path errors, and a distinct non-zero code for build/primer
// failures. The child command's own exit code (or 128+signum) is returned
// directly by the dispatcher and does not come from this package.
const (
	ExitConfig      = 1
	ExitHostProbe   = 2
	ExitBuildFailed = 3
)

// ConfigNotFound is returned when no dock.yaml is found walking up from the CWD.
type ConfigNotFound struct{ StartDir string }

func (e *ConfigNotFound) Error() string {
	return fmt.Sprintf("no dock.yaml found above %s", e.StartDir)
}

// ConfigParseFailed wraps a YAML decoding error.
type ConfigParseFailed struct{ Cause error }

func (e *ConfigParseFailed) Error() string { return fmt.Sprintf("parsing dock.yaml: %v", e.Cause) }
func (e *ConfigParseFailed) Unwrap() error { return e.Cause }

// UnsupportedSchemaVersion is returned when schema_version != "0.1".
type UnsupportedSchemaVersion struct{ Found string }

func (e *UnsupportedSchemaVersion) Error() string {
	return fmt.Sprintf("unsupported schema_version %q, expected %q", e.Found, SupportedSchemaVersion)
}

// SupportedSchemaVersion is the only schema_version this build accepts.
const SupportedSchemaVersion = "0.1"

// InvalidIdentifier is returned when organisation/project fail the identifier pattern.
type InvalidIdentifier struct{ Field, Value string }

func (e *InvalidIdentifier) Error() string {
	return fmt.Sprintf("invalid identifier for %s: %q", e.Field, e.Value)
}

// NoEnvironments is returned when environments is empty.
type NoEnvironments struct{}

func (e *NoEnvironments) Error() string { return "project declares no environments" }

// UnknownDefaultShellEnv is returned when default_shell_env names an unknown environment.
type UnknownDefaultShellEnv struct{ Name string }

func (e *UnknownDefaultShellEnv) Error() string {
	return fmt.Sprintf("default_shell_env %q names no known environment", e.Name)
}

// UnknownEnvironment is returned when a CLI-supplied environment name is not declared.
type UnknownEnvironment struct{ Name string }

func (e *UnknownEnvironment) Error() string {
	return fmt.Sprintf("unknown environment %q", e.Name)
}

// GroupWithoutUser is returned when mount_local contains "group" without "user".
type GroupWithoutUser struct{ Environment string }

func (e *GroupWithoutUser) Error() string {
	return fmt.Sprintf("environment %q: mount_local.group requires mount_local.user", e.Environment)
}

// InvalidVolumeName is returned when a cache_volumes short-name fails its identifier pattern.
type InvalidVolumeName struct{ Environment, Name string }

func (e *InvalidVolumeName) Error() string {
	return fmt.Sprintf("environment %q: invalid cache volume name %q", e.Environment, e.Name)
}

// DuplicateVolumeName is returned when two cache_volumes entries share exactly the same
// short-name (cache_volumes is decoded in document order, so repeated keys are kept).
type DuplicateVolumeName struct{ Environment, Name string }

func (e *DuplicateVolumeName) Error() string {
	return fmt.Sprintf("environment %q: duplicate cache volume name %q", e.Environment, e.Name)
}

// HostProbeFailed is returned when a host probe child cannot be started or exits non-zero.
type HostProbeFailed struct {
	Which string
	Cause error
}

func (e *HostProbeFailed) Error() string {
	return fmt.Sprintf("host probe %q failed: %v", e.Which, e.Cause)
}
func (e *HostProbeFailed) Unwrap() error { return e.Cause }

// HostPathsMalformed is returned when DOCK_HOSTPATHS cannot be parsed.
type HostPathsMalformed struct {
	Value string
	Cause error
}

func (e *HostPathsMalformed) Error() string {
	return fmt.Sprintf("malformed DOCK_HOSTPATHS %q: %v", e.Value, e.Cause)
}
func (e *HostPathsMalformed) Unwrap() error { return e.Cause }

// BuildFailed is returned when a runtime `build` invocation exits non-zero.
type BuildFailed struct{ ExitCode int }

func (e *BuildFailed) Error() string { return fmt.Sprintf("image build failed (exit %d)", e.ExitCode) }

// PriorImageRemovalFailed is returned when removing the prior image tag fails for a reason
// other than "still referenced by a container".
type PriorImageRemovalFailed struct {
	ImageID string
	Cause   error
}

func (e *PriorImageRemovalFailed) Error() string {
	return fmt.Sprintf("removing prior image %s: %v", e.ImageID, e.Cause)
}
func (e *PriorImageRemovalFailed) Unwrap() error { return e.Cause }

// CacheVolumePrimingFailed is returned when a cache-volume priming container fails.
type CacheVolumePrimingFailed struct {
	Volume string
	Cause  error
}

func (e *CacheVolumePrimingFailed) Error() string {
	return fmt.Sprintf("priming cache volume %q: %v", e.Volume, e.Cause)
}
func (e *CacheVolumePrimingFailed) Unwrap() error { return e.Cause }

// RuntimeSpawnFailed is returned when the container runtime binary cannot be started.
type RuntimeSpawnFailed struct{ Cause error }

func (e *RuntimeSpawnFailed) Error() string { return fmt.Sprintf("spawning runtime: %v", e.Cause) }
func (e *RuntimeSpawnFailed) Unwrap() error { return e.Cause }

// NoShellConfigured is returned by `shell` when the target environment has no shell set.
type NoShellConfigured struct{ Environment string }

func (e *NoShellConfigured) Error() string {
	return fmt.Sprintf("environment %q has no shell configured", e.Environment)
}

// ExitCode maps an error from this taxonomy to the process exit code the
// dispatcher should surface. A child command's own exit status is returned
// directly by the dispatcher and does not pass through here; any other error
// outside the taxonomy (e.g. a failure to invoke the runtime's image inspect)
// maps to ExitConfig.
func ExitCode(err error) int {
	switch err.(type) {
	case *ConfigNotFound, *ConfigParseFailed, *UnsupportedSchemaVersion, *InvalidIdentifier,
		*NoEnvironments, *UnknownDefaultShellEnv, *UnknownEnvironment, *GroupWithoutUser,
		*InvalidVolumeName, *DuplicateVolumeName, *NoShellConfigured:
		return ExitConfig
	case *HostProbeFailed, *HostPathsMalformed:
		return ExitHostProbe
	case *BuildFailed, *PriorImageRemovalFailed, *CacheVolumePrimingFailed, *RuntimeSpawnFailed:
		return ExitBuildFailed
	default:
		return ExitConfig
	}
}
