package mdhtml

import (
	"io"
	"slices"
)

// Tokenizer turns code units into tokens. It recognises line terminators
// and heading markers; everything else is text.
type Tokenizer struct {
	src *Reassembler

	peeked  CodeUnit
	peekErr error
	hasPeek bool

	cache    []CodeUnit
	cacheArr [MaxHeadingLevel + 1]CodeUnit
	// overflow is set while the rest of a '#' run longer than
	// MaxHeadingLevel is being passed through as text.
	overflow bool
}

// NewTokenizer returns a Tokenizer reading from r.
func NewTokenizer(r io.Reader, opts ...Option) *Tokenizer {
	t := &Tokenizer{src: &Reassembler{}}
	t.resetWithConfig(r, newConfig(opts))
	return t
}

// Reset discards all state and starts reading from r.
func (t *Tokenizer) Reset(r io.Reader, opts ...Option) {
	t.resetWithConfig(r, newConfig(opts))
}

func (t *Tokenizer) resetWithConfig(r io.Reader, cfg config) {
	if t.src == nil {
		t.src = &Reassembler{}
	}
	t.src.resetWithConfig(r, cfg)
	t.peeked = CodeUnit{}
	t.peekErr = nil
	t.hasPeek = false
	t.cache = t.cacheArr[:0]
	t.overflow = false
}

// Position returns the position of the next unread unit.
func (t *Tokenizer) Position() (line, column int) {
	return t.src.Position()
}

// Next returns the next token, or io.EOF when the input is exhausted.
func (t *Tokenizer) Next() (Token, error) {
	if len(t.cache) > 0 {
		return t.flushCache(), nil
	}
	u, err := t.next()
	if err != nil {
		return Token{}, err
	}
	if t.overflow {
		if u.Is('#') {
			return Token{Kind: TokenText, Unit: u}, nil
		}
		t.overflow = false
	}
	if u.Len() == 1 {
		switch u.b[0] {
		case '\n':
			return Token{Kind: TokenLF}, nil
		case '\r':
			p, err := t.peek()
			if err == nil && p.Is('\n') {
				t.hasPeek = false
				return Token{Kind: TokenCRLF}, nil
			}
			if err != nil && err != io.EOF {
				return Token{}, err
			}
			return Token{Kind: TokenCR}, nil
		case '#':
			return t.scanHeader(u)
		}
	}
	return Token{Kind: TokenText, Unit: u}, nil
}

// scanHeader collects a run of '#'. A run of at most MaxHeadingLevel marks
// followed by a space is a heading marker and the space is consumed. Any
// other run, including one cut off by end of input, is literal text. At most
// MaxHeadingLevel+1 marks are held; the rest of a longer run is returned as
// single Text tokens until the first unit that is not '#'.
func (t *Tokenizer) scanHeader(first CodeUnit) (Token, error) {
	t.cache = append(t.cache[:0], first)
	for {
		p, err := t.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.cache = t.cache[:0]
			return Token{}, err
		}
		if p.Is('#') {
			t.hasPeek = false
			t.cache = append(t.cache, p)
			if len(t.cache) > MaxHeadingLevel {
				t.overflow = true
				break
			}
			continue
		}
		if p.Is(' ') {
			t.hasPeek = false
			level := len(t.cache)
			t.cache = t.cache[:0]
			return Token{Kind: TokenHeader, Level: level}, nil
		}
		break
	}
	return t.flushCache(), nil
}

func (t *Tokenizer) flushCache() Token {
	tok := Token{Kind: TokenTextChunk, Units: slices.Clone(t.cache)}
	t.cache = t.cache[:0]
	return tok
}

func (t *Tokenizer) next() (CodeUnit, error) {
	if t.hasPeek {
		t.hasPeek = false
		return t.peeked, t.peekErr
	}
	return t.src.Next()
}

func (t *Tokenizer) peek() (CodeUnit, error) {
	if !t.hasPeek {
		t.peeked, t.peekErr = t.src.Next()
		t.hasPeek = true
	}
	return t.peeked, t.peekErr
}
