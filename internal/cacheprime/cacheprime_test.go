package cacheprime

import (
	"context"
	"reflect"
	"testing"

	"github.com/dockctl/dock/internal/config"
	"github.com/dockctl/dock/internal/imageref"
	"github.com/dockctl/dock/internal/runtimecli"
)

func TestPrimeArgsOrderAndNamespacing(t *testing.T) {
	ref := imageref.ForEnvironment("o", "p", "e", "")
	args := primeArgs("o", "p", "cargo", "/cargo", "brave-euclid", ref)
	want := []string{
		"run", "--rm",
		"--name=brave-euclid",
		"--mount=type=volume,src=o.p.cache.cargo,dst=/cargo",
		"o/p.e:latest",
		"chmod", "0777", "/cargo",
	}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("got %v want %v", args, want)
	}
}

func TestPrimeNoopWithoutCacheVolumes(t *testing.T) {
	rt := runtimecli.New("docker")
	ref := imageref.ForEnvironment("o", "p", "e", "")
	if err := Prime(context.Background(), rt, "o", "p", config.Environment{}, ref); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}
