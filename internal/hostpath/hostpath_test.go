package hostpath

import "testing"

func TestParseEmpty(t *testing.T) {
	m, err := Parse("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
}

func TestParseSerializeRoundTrip(t *testing.T) {
	in := "/home/me/proj:/app /home/me/other:/opt/other"
	m, err := Parse(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Serialize(); got != in {
		t.Fatalf("round trip mismatch: got %q want %q", got, in)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse("nocolonhere"); err == nil {
		t.Fatalf("expected error for malformed entry")
	}
}

func TestRebasePrefixMatch(t *testing.T) {
	m := Map{{Host: "/home/me/proj", Container: "/app"}}
	if got := m.Rebase("/app/sub/file.go"); got != "/home/me/proj/sub/file.go" {
		t.Fatalf("got %q", got)
	}
}

func TestRebaseExactMatch(t *testing.T) {
	m := Map{{Host: "/home/me/proj", Container: "/app"}}
	if got := m.Rebase("/app"); got != "/home/me/proj" {
		t.Fatalf("got %q", got)
	}
}

func TestRebaseSegmentBoundary(t *testing.T) {
	// "/appendix" must not be treated as living under "/app".
	m := Map{{Host: "/home/me/proj", Container: "/app"}}
	if got := m.Rebase("/appendix/file"); got != "/appendix/file" {
		t.Fatalf("expected unchanged path, got %q", got)
	}
}

func TestRebaseNoMatch(t *testing.T) {
	m := Map{{Host: "/home/me/proj", Container: "/app"}}
	if got := m.Rebase("/other/path"); got != "/other/path" {
		t.Fatalf("got %q", got)
	}
}

func TestRebaseFirstMatchWins(t *testing.T) {
	m := Map{
		{Host: "/h1", Container: "/app"},
		{Host: "/h2", Container: "/app/sub"},
	}
	if got := m.Rebase("/app/sub/x"); got != "/h1/sub/x" {
		t.Fatalf("expected first entry to win, got %q", got)
	}
}

func TestAppendDoesNotMutateReceiver(t *testing.T) {
	m := Map{{Host: "/a", Container: "/b"}}
	m2 := m.Append("/c", "/d")
	if len(m) != 1 {
		t.Fatalf("receiver was mutated: %v", m)
	}
	if len(m2) != 2 {
		t.Fatalf("expected appended copy to have 2 entries, got %v", m2)
	}
}

func TestRoundTripRebaseInvariant(t *testing.T) {
	m := Map{{Host: "/home/me/proj", Container: "/app"}}
	serialized := m.Serialize()
	reparsed, err := Parse(serialized)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range []string{"/app", "/app/x/y", "/other"} {
		if m.Rebase(p) != reparsed.Rebase(p) {
			t.Fatalf("rebase(%q) diverges after round trip", p)
		}
	}
}
