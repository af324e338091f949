// Package config loads and validates dock.yaml into a Project, the typed,
// read-only configuration record the rest of dock's pipeline consumes.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/dockctl/dock/internal/dockerr"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the conventional name of the project configuration file.
const ConfigFileName = "dock.yaml"

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// KV is one key/value pair of an order-sensitive YAML mapping.
type KV struct {
	Key   string
	Value string
}

// OrderedMap preserves the declaration order of a YAML mapping of string to
// string, which Go's native map type cannot. Several Environment fields
// (env, cache_volumes, mounts) are assembled into runtime arguments in
// declaration order, so the loader decodes them into OrderedMap rather than
// map[string]string.
type OrderedMap []KV

// UnmarshalYAML reads a mapping node's Content pairs directly, which are
// stored in document order, rather than going through a Go map.
func (m *OrderedMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return &yaml.TypeError{Errors: []string{"expected a mapping"}}
	}
	out := make(OrderedMap, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var k, v string
		if err := value.Content[i].Decode(&k); err != nil {
			return err
		}
		if err := value.Content[i+1].Decode(&v); err != nil {
			return err
		}
		out = append(out, KV{Key: k, Value: v})
	}
	*m = out
	return nil
}

// Environment is a named, declaratively specified container configuration.
// All fields are optional.
type Environment struct {
	Workdir      string     `yaml:"workdir"`
	Shell        string     `yaml:"shell"`
	BuildArgs    []string   `yaml:"build_args"`
	RunArgs      []string   `yaml:"run_args"`
	Env          OrderedMap `yaml:"env"`
	MountLocal   []string   `yaml:"mount_local"`
	CacheVolumes OrderedMap `yaml:"cache_volumes"`
	Mounts       OrderedMap `yaml:"mounts"`
}

// HasMountLocal reports whether kind (one of "user", "group", "project_dir",
// "docker") is present in mount_local.
func (e Environment) HasMountLocal(kind string) bool {
	for _, k := range e.MountLocal {
		if k == kind {
			return true
		}
	}
	return false
}

// Project is the parsed, validated dock.yaml.
type Project struct {
	SchemaVersion   string                 `yaml:"schema_version"`
	Organisation    string                 `yaml:"organisation"`
	ProjectName     string                 `yaml:"project"`
	DefaultShellEnv string                 `yaml:"default_shell_env"`
	Environments    map[string]Environment `yaml:"environments"`
}

// Locate walks upward from startDir looking for dock.yaml, returning its
// path and the directory that contains it (which becomes HostContext's
// ProjectDir). It fails with ConfigNotFound if the filesystem root is
// reached without finding one.
func Locate(startDir string) (configPath, projectDir string, err error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", "", err
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", &dockerr.ConfigNotFound{StartDir: startDir}
		}
		dir = parent
	}
}

// Load parses the YAML document at path into a Project, rejecting unknown
// top-level or environment keys (strict schema).
func Load(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &dockerr.ConfigParseFailed{Cause: err}
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var p Project
	if err := dec.Decode(&p); err != nil {
		return nil, &dockerr.ConfigParseFailed{Cause: err}
	}
	return &p, nil
}

// LoadProject locates, loads, and validates the project configuration
// starting the upward search from startDir. It returns the Project and the
// directory that contains dock.yaml.
func LoadProject(startDir string) (*Project, string, error) {
	configPath, projectDir, err := Locate(startDir)
	if err != nil {
		return nil, "", err
	}
	p, err := Load(configPath)
	if err != nil {
		return nil, "", err
	}
	if err := Validate(p); err != nil {
		return nil, "", err
	}
	slog.Debug("config.LoadProject", "configPath", configPath, "projectDir", projectDir)
	return p, projectDir, nil
}

// Validate checks schema-version, identifier, and cross-field invariants in
// the fixed order spec.md §4.B enumerates, returning the first violation.
func Validate(p *Project) error {
	if p.SchemaVersion != dockerr.SupportedSchemaVersion {
		return &dockerr.UnsupportedSchemaVersion{Found: p.SchemaVersion}
	}
	if !identifierPattern.MatchString(p.Organisation) {
		return &dockerr.InvalidIdentifier{Field: "organisation", Value: p.Organisation}
	}
	if !identifierPattern.MatchString(p.ProjectName) {
		return &dockerr.InvalidIdentifier{Field: "project", Value: p.ProjectName}
	}
	if len(p.Environments) == 0 {
		return &dockerr.NoEnvironments{}
	}
	if p.DefaultShellEnv != "" {
		if _, ok := p.Environments[p.DefaultShellEnv]; !ok {
			return &dockerr.UnknownDefaultShellEnv{Name: p.DefaultShellEnv}
		}
	}

	names := make([]string, 0, len(p.Environments))
	for name := range p.Environments {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		env := p.Environments[name]
		if env.HasMountLocal("group") && !env.HasMountLocal("user") {
			return &dockerr.GroupWithoutUser{Environment: name}
		}
		seen := map[string]bool{}
		for _, kv := range env.CacheVolumes {
			if !identifierPattern.MatchString(kv.Key) {
				return &dockerr.InvalidVolumeName{Environment: name, Name: kv.Key}
			}
			if seen[kv.Key] {
				return &dockerr.DuplicateVolumeName{Environment: name, Name: kv.Key}
			}
			seen[kv.Key] = true
		}
	}
	return nil
}
