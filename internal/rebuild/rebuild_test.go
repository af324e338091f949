package rebuild

import (
	"errors"
	"testing"
)

func TestStillInUseRecognizesKnownPhrasings(t *testing.T) {
	cases := []string{
		"Error response from daemon: conflict: unable to delete (must be forced) - image is referenced in multiple repositories",
		"image is being used by running container abc123",
		"Error: image has dependent child images",
	}
	for _, msg := range cases {
		if !stillInUse(errors.New(msg)) {
			t.Errorf("expected stillInUse(%q) to be true", msg)
		}
	}
}

func TestStillInUseRejectsUnrelatedFailure(t *testing.T) {
	if stillInUse(errors.New("no such image")) {
		t.Fatal("expected unrelated failure not to classify as still-in-use")
	}
}

func TestExitCodeOfDefaultsWhenNotExitError(t *testing.T) {
	if got := exitCodeOf(errors.New("exec: \"docker\": executable file not found in $PATH")); got != 1 {
		t.Fatalf("got %d want 1", got)
	}
}
