package streamreader

import (
	"bytes"
	"errors"
	"testing"

	aetherrors "github.com/iakinsey/aetherscope/internal/errors"
)

func newTestReader(t *testing.T, s string) *Reader {
	t.Helper()
	r, err := New(bytes.NewReader([]byte(s)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestReadChar_ASCIIAndMultibyte(t *testing.T) {
	r := newTestReader(t, "aé中")
	want := []rune{'a', 'é', '中'}
	for i, w := range want {
		ch, err := r.ReadChar()
		if err != nil {
			t.Fatalf("ReadChar[%d]: %v", i, err)
		}
		if ch != w {
			t.Fatalf("ReadChar[%d] = %q, want %q", i, ch, w)
		}
	}
	if _, err := r.ReadChar(); !isUnexpectedEOF(err) {
		t.Fatalf("ReadChar at EOF = %v, want UnexpectedEofError", err)
	}
}

func isUnexpectedEOF(err error) bool {
	var e *aetherrors.UnexpectedEofError
	return errors.As(err, &e)
}

func TestMatchNext_RewindOnMismatch(t *testing.T) {
	r := newTestReader(t, "abc")
	ok, err := r.MatchNext([]rune{'a', 'x'}, true)
	if err != nil {
		t.Fatalf("MatchNext: %v", err)
	}
	if ok {
		t.Fatal("MatchNext should not match \"ax\" against \"abc\"")
	}
	if r.Position() != 0 {
		t.Fatalf("Position after rewind = %d, want 0", r.Position())
	}

	ok2, err := r.MatchNext([]rune{'a', 'b'}, true)
	if err != nil {
		t.Fatalf("MatchNext: %v", err)
	}
	if !ok2 {
		t.Fatal("MatchNext should match \"ab\"")
	}
	if r.Position() != 2 {
		t.Fatalf("Position after match = %d, want 2", r.Position())
	}
}

func TestMatchNextOr(t *testing.T) {
	r := newTestReader(t, "xyz")
	ch, ok, err := r.MatchNextOr([]rune{'a', 'x'}, true)
	if err != nil {
		t.Fatalf("MatchNextOr: %v", err)
	}
	if !ok || ch != 'x' {
		t.Fatalf("MatchNextOr = %q, %v, want 'x', true", ch, ok)
	}

	_, ok2, err := r.MatchNextOr([]rune{'a', 'b'}, true)
	if err != nil {
		t.Fatalf("MatchNextOr: %v", err)
	}
	if ok2 {
		t.Fatal("MatchNextOr should miss on 'y' against {a,b}")
	}
	if r.Position() != 1 {
		t.Fatalf("Position after rewind = %d, want 1", r.Position())
	}
}

func TestGetUntilMismatch(t *testing.T) {
	legal := map[rune]struct{}{'a': {}, 'b': {}, 'c': {}}
	r := newTestReader(t, "abcd")
	got, err := r.GetUntilMismatch(legal)
	if err != nil {
		t.Fatalf("GetUntilMismatch: %v", err)
	}
	if got != "abc" {
		t.Fatalf("GetUntilMismatch = %q, want %q", got, "abc")
	}
	ch, err := r.ReadChar()
	if err != nil || ch != 'd' {
		t.Fatalf("ReadChar after GetUntilMismatch = %q, %v, want 'd', nil", ch, err)
	}
}

func TestGetUntilMismatch_EOFNonFatal(t *testing.T) {
	legal := map[rune]struct{}{'a': {}}
	r := newTestReader(t, "aaa")
	got, err := r.GetUntilMismatch(legal)
	if err != nil {
		t.Fatalf("GetUntilMismatch: %v", err)
	}
	if got != "aaa" {
		t.Fatalf("GetUntilMismatch = %q, want %q", got, "aaa")
	}
}

func TestReadUntilMatch_FindsPatternBeforeTerm(t *testing.T) {
	r := newTestReader(t, " href=\"x\">")
	found, err := r.ReadUntilMatch([]rune{'h', 'r', 'e', 'f', '='}, '>', true)
	if err != nil {
		t.Fatalf("ReadUntilMatch: %v", err)
	}
	if !found {
		t.Fatal("expected to find href= before '>'")
	}
}

func TestReadUntilMatch_TermBeforePattern(t *testing.T) {
	r := newTestReader(t, " class=\"x\">no href here")
	found, err := r.ReadUntilMatch([]rune{'h', 'r', 'e', 'f', '='}, '>', true)
	if err != nil {
		t.Fatalf("ReadUntilMatch: %v", err)
	}
	if found {
		t.Fatal("expected term char to stop the scan before href= is found")
	}
	if r.Position() != 0 {
		t.Fatalf("Position after rewind = %d, want 0", r.Position())
	}
}

func TestSetPositionAndPosition(t *testing.T) {
	r := newTestReader(t, "abcdef")
	if _, err := r.ReadChar(); err != nil {
		t.Fatalf("ReadChar: %v", err)
	}
	if err := r.SetPosition(3); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	ch, err := r.ReadChar()
	if err != nil || ch != 'd' {
		t.Fatalf("ReadChar after SetPosition(3) = %q, %v, want 'd', nil", ch, err)
	}
}
