package parse

import (
	"net/url"
	"strings"
)

// IsValidURL reports whether raw parses as an absolute URL carrying both a scheme and a host
// Parse failures are reported as false, never as an error
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// Resolve resolves ref against base following RFC 3986 (absolute, protocol-relative, path-relative, query and fragment references)
// Surrounding whitespace in ref is ignored, as browsers do for href attributes
// If either side cannot be parsed the trimmed ref is returned unchanged, so callers filtering with IsValidURL drop it
func Resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	resolved, err := baseURL.Parse(ref)
	if err != nil {
		return ref
	}
	return resolved.String()
}

// LastSegment returns the text after the final '/' of a raw URL string, query and fragment included
// A URL ending in '/' yields ""
func LastSegment(raw string) string {
	return raw[strings.LastIndex(raw, "/")+1:]
}

// FileName returns the last segment of raw with percent-escapes decoded, so "a%20b.pdf" names the file "a b.pdf".
// The escaped segment is kept when it does not decode or would decode to a name containing a path separator
func FileName(raw string) string {
	segment := LastSegment(raw)
	name, err := url.PathUnescape(segment)
	if err != nil || strings.ContainsAny(name, `/\`) {
		return segment
	}
	return name
}
