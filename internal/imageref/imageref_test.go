package imageref

import "testing"

func TestForEnvironmentDefaultsTag(t *testing.T) {
	r := ForEnvironment("org", "proj", "build", "")
	if got, want := r.String(), "org/proj.build:latest"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestParseWithTag(t *testing.T) {
	r := Parse("x:t")
	if r.Repository != "x" || r.Tag != "t" {
		t.Fatalf("got %+v", r)
	}
}

func TestParseWithoutTag(t *testing.T) {
	r := Parse("x")
	if r.Repository != "x" || r.Tag != DefaultTag {
		t.Fatalf("got %+v", r)
	}
}

func TestParseRegistryPortNotMistakenForTag(t *testing.T) {
	r := Parse("localhost:5000/name")
	if r.Repository != "localhost:5000/name" || r.Tag != DefaultTag {
		t.Fatalf("got %+v", r)
	}
}

func TestParseRegistryPortWithTag(t *testing.T) {
	r := Parse("localhost:5000/name:v2")
	if r.Repository != "localhost:5000/name" || r.Tag != "v2" {
		t.Fatalf("got %+v", r)
	}
}
