package urlutil

import (
	"encoding/binary"
	"net/url"

	"github.com/zeebo/xxh3"
)

// Key128 is a 128-bit hash key, stored big-endian, used to identify a URL,
// host, or site row in the signal store.
type Key128 [16]byte

// hashString derives a Key128 from s using xxh3-128, big-endian.
func hashString(s string) Key128 {
	h := xxh3.Hash128([]byte(s))
	var out Key128
	binary.BigEndian.PutUint64(out[0:8], h.Hi)
	binary.BigEndian.PutUint64(out[8:16], h.Lo)
	return out
}

// URLKey hashes the canonicalized URL string.
func URLKey(absoluteURL string) Key128 {
	return hashString(absoluteURL)
}

// HostKey hashes HostString(u).
func HostKey(u *url.URL) Key128 {
	return hashString(HostString(u))
}

// SiteKey hashes Site(u).
func SiteKey(u *url.URL) Key128 {
	return hashString(Site(u))
}

// Bytes returns the big-endian 16-byte representation.
func (k Key128) Bytes() []byte {
	return k[:]
}
