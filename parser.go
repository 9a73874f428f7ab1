package mdhtml

import (
	"fmt"
	"io"
)

// State is the parser's position in the line structure.
type State uint8

const (
	// StateLineStart is the state at the start of a line.
	StateLineStart State = iota
	// StateHeaderMark is the state inside a heading line.
	StateHeaderMark
	// StateParagraph is the state inside paragraph text.
	StateParagraph
	// StateEOF is terminal; output has been flushed.
	StateEOF
)

func (s State) String() string {
	switch s {
	case StateLineStart:
		return "LineStart"
	case StateHeaderMark:
		return "HeaderMark"
	case StateParagraph:
		return "Paragraph"
	case StateEOF:
		return "EOF"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Parser drives a Mapper from the token stream of a Tokenizer.
type Parser struct {
	tok   Tokenizer
	state State
	level int
}

// NewParser returns a Parser reading Markdown from r.
func NewParser(r io.Reader, opts ...Option) *Parser {
	p := &Parser{}
	p.resetWithConfig(r, newConfig(opts))
	return p
}

// Reset discards all state and starts reading from r.
func (p *Parser) Reset(r io.Reader, opts ...Option) {
	p.resetWithConfig(r, newConfig(opts))
}

func (p *Parser) resetWithConfig(r io.Reader, cfg config) {
	p.tok.resetWithConfig(r, cfg)
	p.state = StateLineStart
	p.level = 0
}

// State returns the current state.
func (p *Parser) State() State { return p.state }

// Level returns the open heading level in StateHeaderMark, otherwise 0.
func (p *Parser) Level() int {
	if p.state != StateHeaderMark {
		return 0
	}
	return p.level
}

// Run consumes the whole token stream, writing through m, and flushes m at
// end of input. Open headings and paragraphs are closed before the flush.
// Run is a no-op once the parser has reached StateEOF.
func (p *Parser) Run(m *Mapper) error {
	if p.state == StateEOF {
		return nil
	}
	for {
		tok, err := p.tok.Next()
		if err == io.EOF {
			return p.finish(m)
		}
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if err := p.step(m, tok); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
}

func (p *Parser) step(m *Mapper, tok Token) error {
	switch p.state {
	case StateLineStart:
		switch {
		case tok.Kind == TokenHeader:
			p.state = StateHeaderMark
			p.level = tok.Level
			return m.WriteHeadingStart(tok.Level)
		case tok.IsLineTerminator():
			return m.WriteLineBreak()
		default:
			p.state = StateParagraph
			if err := m.WriteParagraphStart(); err != nil {
				return err
			}
			return writeText(m, tok)
		}
	case StateHeaderMark:
		switch {
		case tok.Kind == TokenHeader:
			return m.WriteLiteralHeading(tok.Level)
		case tok.IsLineTerminator():
			p.state = StateLineStart
			if err := m.WriteHeadingEnd(p.level); err != nil {
				return err
			}
			return m.WriteLineBreak()
		default:
			return writeText(m, tok)
		}
	case StateParagraph:
		switch {
		case tok.Kind == TokenHeader:
			return m.WriteLiteralHeading(tok.Level)
		case tok.IsLineTerminator():
			p.state = StateLineStart
			return m.WriteParagraphEnd()
		default:
			return writeText(m, tok)
		}
	}
	return nil
}

func (p *Parser) finish(m *Mapper) error {
	var err error
	switch p.state {
	case StateHeaderMark:
		err = m.WriteHeadingEnd(p.level)
	case StateParagraph:
		err = m.WriteParagraphEnd()
	}
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	p.state = StateEOF
	if err := m.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func writeText(m *Mapper, tok Token) error {
	if tok.Kind == TokenTextChunk {
		return m.WriteChunk(tok.Units)
	}
	return m.WriteUnit(tok.Unit)
}
