package extractor

import (
	"bytes"
	"testing"

	"github.com/iakinsey/aetherscope/internal/streamreader"
)

func newReader(t *testing.T, body string) *streamreader.Reader {
	t.Helper()
	sr, err := streamreader.New(bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("streamreader.New: %v", err)
	}
	return sr
}

func TestRun_MixedInput(t *testing.T) {
	cases := []struct {
		name   string
		origin string
		body   string
		want   []string
	}{
		{
			name:   "bare url amid noise",
			origin: "https://example.com/",
			body:   "binary garbage \x00\x01 see https://foo.test/bar?x=1 for more \x7f",
			want:   []string{"https://foo.test/bar?x=1"},
		},
		{
			name:   "anchor href relative to origin directory",
			origin: "https://example.com/dir/page.html",
			body:   `<html><a href="child">link</a></html>`,
			want:   []string{"https://example.com/dir/child"},
		},
		{
			name:   "anchor and bare url deduplicated and sorted",
			origin: "https://example.com/",
			body:   `visit http://b.test/ then <a href="http://a.test/">a</a> or http://a.test/`,
			want:   []string{"http://a.test/", "http://b.test/"},
		},
		{
			name:   "truncated href still emits the partial url captured before EOF",
			origin: "https://example.com/",
			body:   `<a href="https://trunc.test/pa`,
			want:   []string{"https://trunc.test/pa"},
		},
		{
			name:   "non anchor tag href still found as bare url",
			origin: "https://example.com/",
			body:   `<img href="https://img.test/x.png">`,
			want:   []string{"https://img.test/x.png"},
		},
		{
			name:   "empty input",
			origin: "https://example.com/",
			body:   "",
			want:   nil,
		},
		{
			name:   "href value empty at eof",
			origin: "https://example.com/",
			body:   `<a href="`,
			want:   nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Run(newReader(t, tc.body), tc.origin)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !equalStrings(got, tc.want) {
				t.Fatalf("Run(%q) = %v, want %v", tc.body, got, tc.want)
			}
		})
	}
}

func TestRun_InvalidOrigin(t *testing.T) {
	if _, err := Run(newReader(t, "hello"), "://not a url"); err == nil {
		t.Fatal("expected error for invalid origin")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
