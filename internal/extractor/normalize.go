package extractor

import (
	"net/url"
	"strings"
	"unicode"
)

// NormalizeURL resolves href against origin per the seven-step rule in the
// extractor FSM's href handling. It is a pure function: given the same
// (origin, href) pair it always returns the same result, and is a fixed
// point after one application.
func NormalizeURL(origin *url.URL, href string) string {
	trimmed := strings.TrimSpace(href)
	if trimmed == "" {
		return origin.String()
	}

	if parsed, err := url.Parse(trimmed); err == nil && parsed.IsAbs() {
		return parsed.String()
	}

	if strings.HasPrefix(trimmed, "//") {
		return origin.Scheme + ":" + trimmed
	}

	if strings.HasPrefix(trimmed, "#") {
		u2 := *origin
		u2.Fragment = trimmed[1:]
		u2.RawFragment = ""
		return u2.String()
	}

	if strings.HasPrefix(trimmed, "?") {
		u2 := *origin
		u2.RawQuery = trimmed[1:]
		u2.Fragment = ""
		u2.RawFragment = ""
		return u2.String()
	}

	if isDomainish(trimmed) {
		u2 := &url.URL{Scheme: origin.Scheme, Host: hostPortion(trimmed), Path: pathPortion(trimmed)}
		if u2.Path == "" {
			u2.Path = "/"
		}
		return u2.String()
	}

	ref, err := url.Parse(trimmed)
	if err != nil {
		return origin.String()
	}
	return origin.ResolveReference(ref).String()
}

// isDomainish implements the spec's heuristic: no leading '/', '.', '?',
// '#', no whitespace, and the host portion looks like a DNS name, an IPv6
// literal, or a digit-leading host:port pair.
func isDomainish(s string) bool {
	if s == "" {
		return false
	}
	switch s[0] {
	case '/', '.', '?', '#':
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			return false
		}
	}
	host := hostPortion(s)
	if host == "" {
		return false
	}
	if strings.HasPrefix(host, "[") {
		return true
	}
	if strings.Contains(host, ".") {
		return true
	}
	if len(host) > 0 && unicode.IsDigit(rune(host[0])) && strings.Contains(host, ":") {
		return true
	}
	return false
}

func hostPortion(s string) string {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i]
	}
	return s
}

func pathPortion(s string) string {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[i:]
	}
	return ""
}
