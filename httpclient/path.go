package httpclient

import "strings"

// Path lists the segments appended to the base URL and an optional query
// object. Query must encode to a flat JSON object.
//
// A first segment starting with http:// or https:// is an absolute base URL
// that overrides both the client config and any Endpoint.
type Path struct {
	Segments []string
	Query    any
}

// PathComponents implements PathProvider.
func (p Path) PathComponents() Path {
	return p
}

// PathProvider describes the path of one request.
type PathProvider interface {
	PathComponents() Path
}

// Segments builds a Path without a query.
func Segments(segments ...string) Path {
	return Path{Segments: segments}
}

// WithQuery returns a copy of p carrying query.
func (p Path) WithQuery(query any) Path {
	p.Query = query
	return p
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

// resolvePath picks the base URL for a request and the segments left to
// append. An empty result is a logic error: nothing is sent.
func resolvePath(p Path, base string) (string, []string, error) {
	segments := p.Segments
	if len(segments) > 0 && isAbsoluteURL(segments[0]) {
		base = segments[0]
		segments = segments[1:]
	}
	if base == "" {
		return "", nil, NewLogicError("no base URL set")
	}
	return base, segments, nil
}
