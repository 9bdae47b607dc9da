// Package urlutil implements C4: URL normalization support, host/site
// derivation, and robots.txt URL construction.
package urlutil

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// KnownDefaultPort returns the default port for scheme, if known.
func KnownDefaultPort(scheme string) string {
	switch strings.ToLower(scheme) {
	case "http":
		return "80"
	case "https":
		return "443"
	default:
		return ""
	}
}

// HostString returns "scheme://lowercased-host:port-or-known-default" for u,
// the canonical form hashed into a host key.
func HostString(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if port == "" {
		port = KnownDefaultPort(u.Scheme)
	}
	if port == "" {
		return strings.ToLower(u.Scheme) + "://" + host
	}
	return strings.ToLower(u.Scheme) + "://" + host + ":" + port
}

// Site returns the eTLD+1 of u's host, or the host itself if it is an IP
// literal (per the glossary's Site definition).
func Site(u *url.URL) string {
	host := u.Hostname()
	if net.ParseIP(host) != nil {
		return host
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return etld1
}

// RobotsURL builds "{scheme}://{host}[:{port}]/robots.txt" for u.
func RobotsURL(u *url.URL) string {
	authority := u.Hostname()
	if port := u.Port(); port != "" {
		authority = net.JoinHostPort(u.Hostname(), port)
	}
	return u.Scheme + "://" + authority + "/robots.txt"
}

// Bucket identifies the (scheme, host, port) bucket a URI falls into for
// robots.txt grouping.
type Bucket struct {
	Scheme, Host, Port string
}

// BucketOf returns the robots bucket for u.
func BucketOf(u *url.URL) Bucket {
	return Bucket{Scheme: u.Scheme, Host: u.Hostname(), Port: u.Port()}
}
