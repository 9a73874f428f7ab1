package mdhtml

import (
	"strconv"
	"strings"
)

// MaxHeadingLevel is the deepest heading a run of '#' can open.
const MaxHeadingLevel = 6

// TokenKind identifies a Token variant.
type TokenKind uint8

const (
	// TokenText is a single code unit of text.
	TokenText TokenKind = iota
	// TokenTextChunk is a run of units that looked like a heading marker but
	// was not one.
	TokenTextChunk
	// TokenHeader is a heading marker with Level 1..6.
	TokenHeader
	// TokenCR is a lone carriage return.
	TokenCR
	// TokenLF is a line feed.
	TokenLF
	// TokenCRLF is a carriage return followed by a line feed.
	TokenCRLF
)

var tokenKindNames = [...]string{
	TokenText:      "Text",
	TokenTextChunk: "TextChunk",
	TokenHeader:    "Header",
	TokenCR:        "CR",
	TokenLF:        "LF",
	TokenCRLF:      "CRLF",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Token is one lexical element of the input.
type Token struct {
	Kind  TokenKind
	Level int
	Unit  CodeUnit
	Units []CodeUnit
}

// IsLineTerminator reports whether t is CR, LF or CRLF.
func (t Token) IsLineTerminator() bool {
	return t.Kind == TokenCR || t.Kind == TokenLF || t.Kind == TokenCRLF
}

func (t Token) String() string {
	switch t.Kind {
	case TokenText:
		return "Text(" + strconv.Quote(t.Unit.String()) + ")"
	case TokenTextChunk:
		var b strings.Builder
		for _, u := range t.Units {
			b.WriteString(u.String())
		}
		return "TextChunk(" + strconv.Quote(b.String()) + ")"
	case TokenHeader:
		return "Header(" + strconv.Itoa(t.Level) + ")"
	default:
		return t.Kind.String()
	}
}
