package extractor

import (
	"net/url"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	origin, err := url.Parse("https://example.com/dir/page.html")
	if err != nil {
		t.Fatalf("parse origin: %v", err)
	}

	cases := []struct {
		name string
		href string
		want string
	}{
		{"empty href returns origin", "", origin.String()},
		{"absolute href passes through", "https://other.test/x", "https://other.test/x"},
		{"protocol relative", "//cdn.test/a.js", "https://cdn.test/a.js"},
		{"fragment only", "#section", "https://example.com/dir/page.html#section"},
		{"query only", "?q=1", "https://example.com/dir/page.html?q=1"},
		{"domainish bare host", "other.test/path", "https://other.test/path"},
		{"relative path resolves against directory", "child", "https://example.com/dir/child"},
		{"dot relative parent", "../sibling.html", "https://example.com/sibling.html"},
		{"absolute path from root", "/top.html", "https://example.com/top.html"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeURL(origin, tc.href)
			if got != tc.want {
				t.Fatalf("NormalizeURL(%q) = %q, want %q", tc.href, got, tc.want)
			}
		})
	}
}

func TestNormalizeURL_FixedPoint(t *testing.T) {
	origin, _ := url.Parse("https://example.com/dir/page.html")
	inputs := []string{"child.html", "//cdn.test/a.js", "https://other.test/x", "other.test/path"}
	for _, in := range inputs {
		once := NormalizeURL(origin, in)
		twice := NormalizeURL(origin, once)
		if once != twice {
			t.Fatalf("NormalizeURL not a fixed point for %q: once=%q twice=%q", in, once, twice)
		}
	}
}
