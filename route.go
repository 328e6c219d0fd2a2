package olat

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// RouteKey identifies a registered route: two keys are equal iff the
// method matches and the template strings are byte-identical. There are
// no wildcard or catch-all segments.
type RouteKey struct {
	Method   Method
	Template string
}

// Params maps template parameter names to the raw (un-decoded) text of
// the concrete path segment they matched.
type Params map[string]string

// segment is one piece of a parsed path template: either a literal that
// must match byte-for-byte, or a named parameter that matches any single
// non-empty segment.
type segment struct {
	literal string
	param   string
}

// parseTemplate splits a path template on "/" and classifies each
// segment. The leading slash produces an empty head segment which is
// discarded; every other segment is kept verbatim, so a trailing slash
// yields a trailing empty literal and "/stocks/" stays distinct from
// "/stocks".
func parseTemplate(template string) ([]segment, error) {
	if !strings.HasPrefix(template, "/") {
		return nil, errors.Newf("template %q must start with a slash", template)
	}

	parts := strings.Split(template, "/")[1:]
	if template == "/" {
		parts = nil
	}

	segs := make([]segment, 0, len(parts))
	seen := map[string]struct{}{}

	for _, part := range parts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := part[1 : len(part)-1]
			if name == "" {
				return nil, errors.Newf("template %q has an unnamed parameter segment", template)
			}
			if _, ok := seen[name]; ok {
				return nil, errors.Newf("template %q repeats parameter %q", template, name)
			}
			seen[name] = struct{}{}
			segs = append(segs, segment{param: name})

			continue
		}

		segs = append(segs, segment{literal: part})
	}

	return segs, nil
}

// Route pairs a key with its parsed template and registered handler.
// Routes are created during registration and never mutated afterwards.
type Route struct {
	Key      RouteKey
	segments []segment
	handler  Handler
}

// RouteMatch is the outcome of resolving a concrete (method, path): the
// selected route plus the parameter bindings extracted from the path.
type RouteMatch struct {
	Route  *Route
	Params Params
}

// match reports whether the concrete path fits this route's template and
// returns the extracted parameter values. Segment counts must be equal,
// literals must be byte-equal, and a parameter binds any single
// non-empty segment.
func (r *Route) match(path string) (Params, bool) {
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}

	parts := strings.Split(path, "/")[1:]
	if path == "/" {
		parts = nil
	}

	if len(parts) != len(r.segments) {
		return nil, false
	}

	params := Params{}
	for i, seg := range r.segments {
		if seg.param != "" {
			if parts[i] == "" {
				return nil, false
			}
			params[seg.param] = parts[i]

			continue
		}

		if seg.literal != parts[i] {
			return nil, false
		}
	}

	return params, true
}
