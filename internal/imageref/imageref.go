// Package imageref implements the (namespace, name, tag) triple dock uses to
// name environment images.
package imageref

import "strings"

// DefaultTag is used when no tag is given, either on the CLI or in the
// environment image name.
const DefaultTag = "latest"

// ImageRef identifies an image by repository and tag. PriorImageID is not
// set by anything in dock: the rebuild engine reports the image id the tag
// pointed to before a build in rebuild.Result.PriorImageID instead.
type ImageRef struct {
	Repository   string
	Tag          string
	PriorImageID string
}

// ForEnvironment builds the canonical image reference for an environment:
// "<organisation>/<project>.<environment>", tagged "latest" unless tag is
// given.
func ForEnvironment(organisation, project, environment, tag string) ImageRef {
	if tag == "" {
		tag = DefaultTag
	}
	return ImageRef{
		Repository: organisation + "/" + project + "." + environment,
		Tag:        tag,
	}
}

// Parse splits a user-supplied "name[:tag]" argument (as accepted by the
// standalone `dock rebuild` command) into an ImageRef. A colon is treated as
// the tag separator only when it appears after the last "/", so a registry
// host:port (e.g. "localhost:5000/name") is not mistaken for a tag.
func Parse(s string) ImageRef {
	lastColon := strings.LastIndex(s, ":")
	lastSlash := strings.LastIndex(s, "/")
	if lastColon > lastSlash {
		return ImageRef{Repository: s[:lastColon], Tag: s[lastColon+1:]}
	}
	return ImageRef{Repository: s, Tag: DefaultTag}
}

// String renders the "repository:tag" form used as the runtime's image
// argument.
func (r ImageRef) String() string {
	return r.Repository + ":" + r.Tag
}
