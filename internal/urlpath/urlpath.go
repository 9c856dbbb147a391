// Package urlpath builds and splits resource URLs of the form
// {base}/{collection}/ and {base}/{collection}/{identifier}/.
package urlpath

import (
	"net/url"
	"strings"
)

// CollectionURL returns the collection URL for a resource.
func CollectionURL(base, collection string) string {
	return base + "/" + collection + "/"
}

// InstanceURL returns the URL of a single resource. The identifier is path-escaped.
func InstanceURL(base, collection, identifier string) string {
	return base + "/" + collection + "/" + url.PathEscape(identifier) + "/"
}

// StripQuery removes any query string and fragment.
func StripQuery(candidate string) string {
	if i := strings.IndexAny(candidate, "?#"); i >= 0 {
		return candidate[:i]
	}
	return candidate
}

// LowerSchemeHost lower-cases the scheme and host of an absolute URL, leaving
// userinfo, path, query and fragment untouched. Other strings are returned as is.
func LowerSchemeHost(s string) string {
	i := strings.Index(s, "://")
	if i <= 0 || !isScheme(s[:i]) {
		return s
	}
	start := i + len("://")
	end := len(s)
	if j := strings.IndexAny(s[start:], "/?#"); j >= 0 {
		end = start + j
	}

	authority := s[start:end]
	var userinfo string
	if at := strings.LastIndex(authority, "@"); at >= 0 {
		userinfo, authority = authority[:at+1], authority[at+1:]
	}
	return strings.ToLower(s[:start]) + userinfo + strings.ToLower(authority) + s[end:]
}

func isScheme(s string) bool {
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// Split returns the non-empty path segments of candidate below base.
// ok is false unless base is a prefix of candidate ending at a segment boundary.
// Scheme and host compare case-insensitively. Query and fragment are ignored.
func Split(candidate, base string) (segments []string, ok bool) {
	candidate = LowerSchemeHost(StripQuery(candidate))
	base = LowerSchemeHost(base)
	if base == "" || !strings.HasPrefix(candidate, base) {
		return nil, false
	}

	rest := candidate[len(base):]
	if rest != "" && rest[0] != '/' {
		return nil, false
	}

	for _, seg := range strings.Split(rest, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments, true
}

// Unescape decodes a path segment, returning it unchanged if it is not valid
// percent-encoding.
func Unescape(segment string) string {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return segment
	}
	return decoded
}

// LooksLikeURL reports whether s is an absolute URL with a scheme and a host.
func LooksLikeURL(s string) bool {
	if !strings.Contains(s, "://") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
