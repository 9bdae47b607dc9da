// Package extractor implements C3: an explicit finite state machine that
// discovers URIs from an arbitrary byte stream without buffering the
// document; title.go holds the companion title FSM. It is a tolerant byte
// scanner, not an HTML parser, by design: it survives truncated responses
// and non-HTML text containing URLs. A byte sequence that is not valid UTF-8
// stops the scan with an InvalidUtf8 error.
package extractor

import (
	"net/url"
	"sort"

	aetherrors "github.com/iakinsey/aetherscope/internal/errors"
	"github.com/iakinsey/aetherscope/internal/streamreader"
)

type state int

const (
	stateReadNewChar state = iota
	stateReadHtmlTag
	stateReadLink
	stateTerminate
)

// legalURLChars is the RFC 3986 legal-URL character set the greedy href/
// bare-URL consumers run over: unreserved plus reserved (gen-delims +
// sub-delims) plus percent-encoding's '%'.
var legalURLChars = buildLegalURLChars()

func buildLegalURLChars() map[rune]struct{} {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" +
		"-._~:/?#[]@!$&'()*+,;=%"
	set := make(map[rune]struct{}, len(chars))
	for _, c := range chars {
		set[c] = struct{}{}
	}
	return set
}

var hrefPattern = []rune{'h', 'r', 'e', 'f', '='}
var quoteChars = []rune{'"', '\''}

// Run drives the FSM to completion over r, resolving relative hrefs against
// origin. It returns the sorted, deduplicated list of discovered absolute
// URLs. An unparseable origin is reported as a UrlParseError; while scanning,
// only InvalidUtf8 is propagated as an error, and source exhaustion is a
// clean termination.
func Run(r *streamreader.Reader, origin string) ([]string, error) {
	originURL, err := url.Parse(origin)
	if err != nil {
		return nil, aetherrors.NewUrlParseError(origin, err)
	}

	var found []string
	st := stateReadNewChar

	for st != stateTerminate {
		switch st {
		case stateReadNewChar:
			st, err = tickReadNewChar(r)
		case stateReadLink:
			var uri string
			st, uri, err = tickReadLink(r)
			if uri != "" {
				found = append(found, uri)
			}
		case stateReadHtmlTag:
			var uri string
			st, uri, err = tickReadHtmlTag(r, originURL)
			if uri != "" {
				found = append(found, uri)
			}
		}
		if err != nil {
			if isUnexpectedEOF(err) {
				break
			}
			return nil, err
		}
	}

	return sortedUnique(found), nil
}

func isUnexpectedEOF(err error) bool {
	_, ok := err.(*aetherrors.UnexpectedEofError)
	return ok
}

func sortedUnique(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// tickReadNewChar consumes chars until 'h' (-> ReadLink) or '<' (-> ReadHtmlTag).
func tickReadNewChar(r *streamreader.Reader) (state, error) {
	for {
		ch, err := r.ReadChar()
		if err != nil {
			return stateTerminate, err
		}
		switch ch {
		case 'h':
			return stateReadLink, nil
		case '<':
			return stateReadHtmlTag, nil
		}
	}
}

// tickReadLink attempts to recognise a bare URL starting at the 'h' already
// consumed by tickReadNewChar.
func tickReadLink(r *streamreader.Reader) (state, string, error) {
	ok, err := r.MatchNext([]rune{'t', 't', 'p'}, true)
	if err != nil {
		return stateTerminate, "", err
	}
	if !ok {
		return stateReadNewChar, "", nil
	}

	scheme := "http"
	ch, matched, err := r.MatchNextOr([]rune{'s', ':'}, true)
	if err != nil {
		return stateTerminate, "", err
	}
	if !matched {
		return stateReadNewChar, "", nil
	}
	if ch == 's' {
		scheme = "https"
		ok, err = r.MatchNext([]rune{':'}, true)
		if err != nil {
			return stateTerminate, "", err
		}
		if !ok {
			return stateReadNewChar, "", nil
		}
	}

	ok, err = r.MatchNext([]rune{'/', '/'}, true)
	if err != nil {
		return stateTerminate, "", err
	}
	if !ok {
		return stateReadNewChar, "", nil
	}

	rest, err := r.GetUntilMismatch(legalURLChars)
	if err != nil {
		return stateTerminate, "", err
	}
	if rest == "" {
		return stateReadNewChar, "", nil
	}
	return stateReadNewChar, scheme + "://" + rest, nil
}

// tickReadHtmlTag rejects non-anchor tags, then looks for an href attribute.
func tickReadHtmlTag(r *streamreader.Reader, origin *url.URL) (state, string, error) {
	ok, err := r.MatchNext([]rune{'a'}, true)
	if err != nil {
		return stateTerminate, "", err
	}
	if !ok {
		return stateReadNewChar, "", nil
	}

	found, err := r.ReadUntilMatch(hrefPattern, '>', true)
	if err != nil {
		return stateTerminate, "", err
	}
	if !found {
		return stateReadNewChar, "", nil
	}

	if _, ok, err := r.MatchNextOr(quoteChars, false); err != nil {
		return stateTerminate, "", err
	} else if !ok {
		return stateReadNewChar, "", nil
	}

	captured, err := r.GetUntilMismatch(legalURLChars)
	if err != nil {
		return stateTerminate, "", err
	}
	if captured == "" {
		return stateReadNewChar, "", nil
	}
	return stateReadNewChar, NormalizeURL(origin, captured), nil
}
