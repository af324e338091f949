package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dockctl/dock/internal/dockerr"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLocateWalksUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "schema_version: '0.1'\n")
	sub := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	path, projectDir, err := Locate(sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if projectDir != root {
		t.Fatalf("got projectDir %q want %q", projectDir, root)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("got config path %q", path)
	}
}

func TestLocateNotFound(t *testing.T) {
	dir := t.TempDir()
	_, _, err := Locate(dir)
	if _, ok := err.(*dockerr.ConfigNotFound); !ok {
		t.Fatalf("expected ConfigNotFound, got %v (%T)", err, err)
	}
}

func TestLoadRejectsUnknownTopLevelKey(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
schema_version: '0.1'
organisation: o
project: p
surprise: true
environments:
  e: {}
`)
	_, err := Load(filepath.Join(dir, ConfigFileName))
	if err == nil {
		t.Fatal("expected an error for unknown top-level key")
	}
}

func TestLoadRejectsUnknownEnvironmentKey(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
schema_version: '0.1'
organisation: o
project: p
environments:
  e:
    bogus_field: true
`)
	_, err := Load(filepath.Join(dir, ConfigFileName))
	if err == nil {
		t.Fatal("expected an error for unknown environment key")
	}
}

func TestOrderedMapPreservesDeclarationOrder(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
schema_version: '0.1'
organisation: o
project: p
environments:
  e:
    env:
      ZED: "1"
      ALPHA: "2"
      MID: "3"
`)
	p, err := Load(filepath.Join(dir, ConfigFileName))
	if err != nil {
		t.Fatal(err)
	}
	env := p.Environments["e"].Env
	got := make([]string, len(env))
	for i, kv := range env {
		got[i] = kv.Key
	}
	want := []string{"ZED", "ALPHA", "MID"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("declaration order mismatch (-want +got):\n%s", diff)
	}
}

func validProject() *Project {
	return &Project{
		SchemaVersion: "0.1",
		Organisation:  "org",
		ProjectName:   "proj",
		Environments: map[string]Environment{
			"e": {},
		},
	}
}

func TestValidateSchemaVersion(t *testing.T) {
	p := validProject()
	p.SchemaVersion = "0.2"
	if _, ok := Validate(p).(*dockerr.UnsupportedSchemaVersion); !ok {
		t.Fatalf("expected UnsupportedSchemaVersion, got %v", Validate(p))
	}
}

func TestValidateIdentifier(t *testing.T) {
	p := validProject()
	p.Organisation = "not an identifier!"
	if _, ok := Validate(p).(*dockerr.InvalidIdentifier); !ok {
		t.Fatalf("expected InvalidIdentifier, got %v", Validate(p))
	}
}

func TestValidateNoEnvironments(t *testing.T) {
	p := validProject()
	p.Environments = nil
	if _, ok := Validate(p).(*dockerr.NoEnvironments); !ok {
		t.Fatalf("expected NoEnvironments, got %v", Validate(p))
	}
}

func TestValidateUnknownDefaultShellEnv(t *testing.T) {
	p := validProject()
	p.DefaultShellEnv = "nope"
	if _, ok := Validate(p).(*dockerr.UnknownDefaultShellEnv); !ok {
		t.Fatalf("expected UnknownDefaultShellEnv, got %v", Validate(p))
	}
}

func TestValidateGroupWithoutUser(t *testing.T) {
	p := validProject()
	p.Environments["e"] = Environment{MountLocal: []string{"group"}}
	if _, ok := Validate(p).(*dockerr.GroupWithoutUser); !ok {
		t.Fatalf("expected GroupWithoutUser, got %v", Validate(p))
	}
}

func TestValidateUserAloneIsAccepted(t *testing.T) {
	p := validProject()
	p.Environments["e"] = Environment{MountLocal: []string{"user"}}
	if err := Validate(p); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateDuplicateVolumeName(t *testing.T) {
	p := validProject()
	p.Environments["e"] = Environment{CacheVolumes: OrderedMap{{Key: "cargo", Value: "/a"}, {Key: "cargo", Value: "/b"}}}
	if _, ok := Validate(p).(*dockerr.DuplicateVolumeName); !ok {
		t.Fatalf("expected DuplicateVolumeName, got %v", Validate(p))
	}
}

func TestValidateInvalidVolumeName(t *testing.T) {
	p := validProject()
	p.Environments["e"] = Environment{CacheVolumes: OrderedMap{{Key: "has space", Value: "/a"}}}
	if _, ok := Validate(p).(*dockerr.InvalidVolumeName); !ok {
		t.Fatalf("expected InvalidVolumeName, got %v", Validate(p))
	}
}
