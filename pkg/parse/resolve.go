package parse

import (
	"net"
	"regexp"
	"strings"

	"octane-crawler/pkg/models"
)

var (
	// absoluteHrefRe detects an http:// href and captures everything up to the first "/"
	absoluteHrefRe = regexp.MustCompile(`(?is)^http://([^/]*)`)
	// hostPathHrefRe requires both a host and a path delimiter
	hostPathHrefRe = regexp.MustCompile(`(?is)^http://([^/]+)/(.*)$`)
)

// ResolveHref turns a raw href into a Link relative to baseHost. It never fails:
//   - "http://HOST/PATH" gives {lower(HOST), PATH}
//   - "http://HOST" gives {lower(HOST), "/"}
//   - anything else is taken as a path on baseHost, with "" collapsing to "/"
//
// Absolute paths are returned as captured after the host delimiter, without a leading
// slash; callers that need a rooted path use RootPath.
func ResolveHref(baseHost, href string) models.Link {
	link := models.Link{Host: baseHost, Path: href}

	if host := parseHTTPHost(href); host != "" {
		link.Host = host
		link.Path = ""
		if m := hostPathHrefRe.FindStringSubmatch(href); m != nil {
			link.Host = stripPort(strings.ToLower(m[1]))
			link.Path = m[2]
		}
	}

	if link.Path == "" {
		link.Path = "/"
	}
	return link
}

// parseHTTPHost returns the lower-cased host of an http:// href, or "" when href is
// not absolute
func parseHTTPHost(href string) string {
	m := absoluteHrefRe.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	return stripPort(strings.ToLower(m[1]))
}

// stripPort drops a ":port" suffix; anything SplitHostPort rejects is returned unchanged
func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil && h != "" {
		return h
	}
	return host
}

// RootPath ensures path starts with exactly the "/" the frontier records; paths that
// already start with "/" are returned unchanged
func RootPath(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}
