package extractor

import "testing"

func TestExtractTitle(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "simple title",
			body: `<html><head><title>Hello World</title></head></html>`,
			want: "Hello World",
		},
		{
			name: "title tag with attributes",
			body: `<title lang="en">Attributed</title>`,
			want: "Attributed",
		},
		{
			name: "whitespace trimmed",
			body: "<title>\n  Padded Title  \n</title>",
			want: "Padded Title",
		},
		{
			name: "no title tag present",
			body: `<html><body>no title here</body></html>`,
			want: "",
		},
		{
			name: "truncated before close tag",
			body: `<title>Cut off and never closed`,
			want: "",
		},
		{
			name: "empty input",
			body: "",
			want: "",
		},
		{
			name: "stray angle bracket inside title body preserved",
			body: `<title>A < B</title>`,
			want: "A < B",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractTitle(newReader(t, tc.body))
			if err != nil {
				t.Fatalf("ExtractTitle: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ExtractTitle(%q) = %q, want %q", tc.body, got, tc.want)
			}
		})
	}
}
