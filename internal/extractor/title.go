package extractor

import (
	"strings"

	"github.com/iakinsey/aetherscope/internal/streamreader"
)

type titleState int

const (
	titleFindTag titleState = iota
	titleMatchOpen
	titleReadBody
	titleTerminate
)

var titleOpenPattern = []rune{'t', 'i', 't', 'l', 'e'}
var titleClosePattern = []rune{'/', 't', 'i', 't', 'l', 'e'}

// ExtractTitle scans r for the first <title> element's text content. The
// original implementation this module is grounded on never finished this
// path (its ReadHtmlTag state matched a stray 'a' before the title pattern
// and left body capture unimplemented); this completes it: find '<', match
// "title", skip any attributes up to '>', then read body text up to the
// matching "</title>" close tag. A document with no title tag is not an
// error: it returns ("", nil), mirroring Run's tolerant EOF handling.
func ExtractTitle(r *streamreader.Reader) (string, error) {
	st := titleFindTag
	var title string

	for st != titleTerminate {
		var err error
		switch st {
		case titleFindTag:
			st, err = titleTickFindTag(r)
		case titleMatchOpen:
			st, err = titleTickMatchOpen(r)
		case titleReadBody:
			st, title, err = titleTickReadBody(r)
		}
		if err != nil {
			if isUnexpectedEOF(err) {
				return "", nil
			}
			return "", err
		}
	}

	return title, nil
}

func titleTickFindTag(r *streamreader.Reader) (titleState, error) {
	for {
		ch, err := r.ReadChar()
		if err != nil {
			return titleTerminate, err
		}
		if ch == '<' {
			return titleMatchOpen, nil
		}
	}
}

func titleTickMatchOpen(r *streamreader.Reader) (titleState, error) {
	ok, err := r.MatchNext(titleOpenPattern, true)
	if err != nil {
		return titleTerminate, err
	}
	if !ok {
		return titleFindTag, nil
	}

	for {
		ch, err := r.ReadChar()
		if err != nil {
			return titleTerminate, err
		}
		if ch == '>' {
			return titleReadBody, nil
		}
	}
}

func titleTickReadBody(r *streamreader.Reader) (titleState, string, error) {
	var sb strings.Builder
	for {
		ch, err := r.ReadChar()
		if err != nil {
			return titleTerminate, "", err
		}
		if ch != '<' {
			sb.WriteRune(ch)
			continue
		}
		matched, err := r.MatchNext(titleClosePattern, true)
		if err != nil {
			return titleTerminate, "", err
		}
		if matched {
			return titleTerminate, strings.TrimSpace(sb.String()), nil
		}
		sb.WriteRune(ch)
	}
}
