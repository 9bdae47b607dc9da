// Package streamreader implements C2: a tolerant UTF-8 character reader
// over a seekable byte source, with lookahead and rewind primitives that
// the Extractor FSM (C3) builds on.
package streamreader

import (
	"io"
	"unicode/utf8"

	aetherrors "github.com/iakinsey/aetherscope/internal/errors"
)

// Source is the minimal seekable byte source the Reader needs. Both
// objectstore.SeekableReader and *os.File satisfy it.
type Source interface {
	io.Reader
	io.Seeker
}

// Reader decodes a Source one UTF-8 code point at a time, tracking an
// absolute byte offset so callers can rewind after a failed lookahead.
type Reader struct {
	src Source
	pos int64
}

// New wraps src, starting at its current position.
func New(src Source) (*Reader, error) {
	pos, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, aetherrors.NewIOError("seek current", err)
	}
	return &Reader{src: src, pos: pos}, nil
}

// Position returns the current absolute byte offset.
func (r *Reader) Position() int64 {
	return r.pos
}

// SetPosition seeks to an absolute byte offset.
func (r *Reader) SetPosition(pos int64) error {
	if _, err := r.src.Seek(pos, io.SeekStart); err != nil {
		return aetherrors.NewIOError("seek", err)
	}
	r.pos = pos
	return nil
}

// readByte reads exactly one byte, advancing pos.
func (r *Reader) readByte() (byte, error) {
	var buf [1]byte
	n, err := r.src.Read(buf[:])
	if n == 1 {
		r.pos++
		return buf[0], nil
	}
	if err == io.EOF || err == nil {
		return 0, &aetherrors.UnexpectedEofError{}
	}
	return 0, aetherrors.NewIOError("read", err)
}

// ReadChar accumulates 1-4 bytes until a valid UTF-8 code point decodes.
// Fails InvalidUtf8Error if a 4-byte accumulation is still invalid, and
// UnexpectedEofError if the source is exhausted before a code point
// completes.
func (r *Reader) ReadChar() (rune, error) {
	start := r.pos
	var buf [utf8.UTFMax]byte
	n := 0
	for n < utf8.UTFMax {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		buf[n] = b
		n++
		if utf8.FullRune(buf[:n]) {
			ch, size := utf8.DecodeRune(buf[:n])
			if ch == utf8.RuneError && size <= 1 {
				return 0, &aetherrors.InvalidUtf8Error{Offset: start}
			}
			return ch, nil
		}
	}
	return 0, &aetherrors.InvalidUtf8Error{Offset: start}
}

// MatchNext consumes up to len(pattern) chars. On the first mismatch it
// returns false and, if rewind is true, restores the pre-call position. On
// a full match it returns true, leaving the cursor past the match.
func (r *Reader) MatchNext(pattern []rune, rewind bool) (bool, error) {
	start := r.pos
	for _, want := range pattern {
		got, err := r.ReadChar()
		if err != nil {
			if isEOF(err) {
				if rewind {
					if serr := r.SetPosition(start); serr != nil {
						return false, serr
					}
				}
				return false, nil
			}
			return false, err
		}
		if got != want {
			if rewind {
				if serr := r.SetPosition(start); serr != nil {
					return false, serr
				}
			}
			return false, nil
		}
	}
	return true, nil
}

// MatchNextOr performs a one-char membership test against set. On a hit it
// returns the matched char with the cursor past it. On a miss it rewinds if
// requested and returns (0, false).
func (r *Reader) MatchNextOr(set []rune, rewind bool) (rune, bool, error) {
	start := r.pos
	ch, err := r.ReadChar()
	if err != nil {
		if isEOF(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	for _, c := range set {
		if ch == c {
			return ch, true, nil
		}
	}
	if rewind {
		if serr := r.SetPosition(start); serr != nil {
			return 0, false, serr
		}
	}
	return 0, false, nil
}

// GetUntilMismatch greedily consumes chars in legalSet, returning the run as
// a string. EOF terminates the run non-fatally.
func (r *Reader) GetUntilMismatch(legalSet map[rune]struct{}) (string, error) {
	var out []rune
	for {
		start := r.pos
		ch, err := r.ReadChar()
		if err != nil {
			if isEOF(err) {
				return string(out), nil
			}
			return string(out), err
		}
		if _, ok := legalSet[ch]; !ok {
			if serr := r.SetPosition(start); serr != nil {
				return string(out), serr
			}
			return string(out), nil
		}
		out = append(out, ch)
	}
}

// ReadUntilMatch scans forward using a restart-on-mismatch index (shift by
// one on failure, no Morris-Pratt table). It returns true if pattern is
// fully matched before any occurrence of termChar; false if termChar is
// seen first (rewinding if requested).
func (r *Reader) ReadUntilMatch(pattern []rune, termChar rune, rewind bool) (bool, error) {
	start := r.pos
	idx := 0
	for {
		ch, err := r.ReadChar()
		if err != nil {
			if isEOF(err) {
				if rewind {
					if serr := r.SetPosition(start); serr != nil {
						return false, serr
					}
				}
				return false, nil
			}
			return false, err
		}
		if ch == termChar && idx == 0 {
			if rewind {
				if serr := r.SetPosition(start); serr != nil {
					return false, serr
				}
			}
			return false, nil
		}
		if ch == pattern[idx] {
			idx++
			if idx == len(pattern) {
				return true, nil
			}
			continue
		}
		// Mismatch: restart the pattern index. If termChar turns up mid-scan
		// after a partial match, treat it the same as an immediate hit.
		if ch == termChar {
			if rewind {
				if serr := r.SetPosition(start); serr != nil {
					return false, serr
				}
			}
			return false, nil
		}
		idx = 0
		if ch == pattern[0] {
			idx = 1
			if idx == len(pattern) {
				return true, nil
			}
		}
	}
}

func isEOF(err error) bool {
	_, ok := err.(*aetherrors.UnexpectedEofError)
	return ok
}
