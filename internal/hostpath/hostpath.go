// Package hostpath implements the DOCK_HOSTPATHS rebasing protocol: an
// ordered, append-only map from container-visible path to the outermost
// host's path, threaded through nested-Docker invocations via an
// environment variable.
package hostpath

import (
	"path"
	"strings"

	"github.com/dockctl/dock/internal/dockerr"
)

// Pair is one (host path, container path) entry.
type Pair struct {
	Host      string
	Container string
}

// Map is an ordered sequence of Pairs. Order matters: Rebase uses the first
// pair in declaration order whose container path is a prefix, even when a
// later pair has a longer matching prefix.
type Map []Pair

// Parse decodes the value of DOCK_HOSTPATHS. An empty string yields an empty
// Map. Entries are whitespace separated; each entry is "host:container".
func Parse(value string) (Map, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	fields := strings.Fields(value)
	m := make(Map, 0, len(fields))
	for _, f := range fields {
		host, container, ok := strings.Cut(f, ":")
		if !ok || host == "" || container == "" {
			return nil, &dockerr.HostPathsMalformed{Value: value, Cause: errMalformedEntry(f)}
		}
		m = append(m, Pair{Host: host, Container: container})
	}
	return m, nil
}

type errMalformedEntry string

func (e errMalformedEntry) Error() string { return "malformed entry " + string(e) }

// Serialize renders a Map back into the DOCK_HOSTPATHS wire format, preserving
// declaration order. Parse(m.Serialize()) reproduces m.
func (m Map) Serialize() string {
	parts := make([]string, len(m))
	for i, p := range m {
		parts[i] = p.Host + ":" + p.Container
	}
	return strings.Join(parts, " ")
}

// Append returns a new Map with (host, container) appended. The receiver is
// not mutated, matching the spec's requirement that extension produces a new
// value for the child's environment rather than mutating the caller's map.
func (m Map) Append(host, container string) Map {
	out := make(Map, len(m), len(m)+1)
	copy(out, m)
	return append(out, Pair{Host: host, Container: container})
}

// Has reports whether (host, container) is already present in m, so callers
// can avoid re-recording a mapping the parent already propagated.
func (m Map) Has(host, container string) bool {
	for _, pair := range m {
		if pair.Host == host && pair.Container == container {
			return true
		}
	}
	return false
}

// Rebase translates a container-visible absolute path back to the host path
// it corresponds to on the outermost host, using the first entry of m, in
// declaration order, whose container path is a path-segment prefix of p. If
// no entry's container path is a prefix of p, p is returned unchanged.
func (m Map) Rebase(p string) string {
	for _, pair := range m {
		if rest, ok := cutPrefix(pair.Container, p); ok {
			return pair.Host + rest
		}
	}
	return p
}

// cutPrefix reports whether container is a path-segment-respecting prefix of
// p, returning the remainder (possibly empty) when it is.
func cutPrefix(container, p string) (string, bool) {
	container = strings.TrimSuffix(container, "/")
	if p == container {
		return "", true
	}
	if strings.HasPrefix(p, container+"/") {
		return p[len(container):], true
	}
	return "", false
}

// Clean returns path.Clean(p), or "" for an empty p, so that a container path
// taken from configuration (which may carry a trailing slash) compares
// consistently with paths built by this package. Nothing in this package or
// its callers applies it automatically.
func Clean(p string) string {
	if p == "" {
		return p
	}
	return path.Clean(p)
}
