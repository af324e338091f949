package runtimecli

import "testing"

func TestBinaryDefaultsToDocker(t *testing.T) {
	r := New("")
	if got := r.binary(); got != DefaultBinary {
		t.Fatalf("got %q want %q", got, DefaultBinary)
	}
}

func TestBinaryHonorsOverride(t *testing.T) {
	r := New("podman")
	if got := r.binary(); got != "podman" {
		t.Fatalf("got %q want podman", got)
	}
}

func TestParseImageInspectJSON(t *testing.T) {
	id, err := parseImageInspectJSON([]byte(`[{"Id":"sha256:abc"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if id != "sha256:abc" {
		t.Fatalf("got %q", id)
	}
}

func TestParseImageInspectJSONEmpty(t *testing.T) {
	if _, err := parseImageInspectJSON([]byte(`[]`)); err == nil {
		t.Fatal("expected error for empty inspect result")
	}
}
