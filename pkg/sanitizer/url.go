package sanitizer

import (
	"net/url"
	"strings"
)

// NormalizeURL lowercases the host, forces https and strips trailing
// slashes. Returns "" for anything that does not parse to a host.
func NormalizeURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}

	// Host may be non-empty while the hostname is (e.g. "://" parses to
	// host ":"), so check the hostname proper.
	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return ""
	}

	u.Scheme = "https"
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(strings.TrimSpace(u.Path), "/")

	return strings.TrimSuffix(u.String(), "/")
}
