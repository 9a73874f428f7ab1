package mdhtml

import (
	"fmt"
	"io"
	"unicode/utf8"
)

const maxConsecutiveEmptyReads = 100

// Reassembler reads bytes from an io.Reader into a fixed-size buffer and
// yields whole code units, stitching together units split across fills.
type Reassembler struct {
	r       io.Reader
	buf     []byte
	cursor  int
	filled  int
	pending pendingUnit
	err     error

	replace bool
	strict  bool

	line   int
	col    int
	lastCR bool

	bufArr [DefaultBufferSize]byte
}

// pendingUnit holds the leading bytes of a unit that did not fit in the
// previous fill.
type pendingUnit struct {
	bytes [utf8.UTFMax]byte
	have  int
	total int
}

func (p *pendingUnit) active() bool { return p.total > 0 }

func (p *pendingUnit) reset() {
	p.have = 0
	p.total = 0
}

// NewReassembler returns a Reassembler reading from r.
func NewReassembler(r io.Reader, opts ...Option) *Reassembler {
	a := &Reassembler{}
	a.resetWithConfig(r, newConfig(opts))
	return a
}

// Reset discards all state and starts reading from r.
func (a *Reassembler) Reset(r io.Reader, opts ...Option) {
	a.resetWithConfig(r, newConfig(opts))
}

func (a *Reassembler) resetWithConfig(r io.Reader, cfg config) {
	a.r = r
	if cfg.bufferSize <= len(a.bufArr) {
		a.buf = a.bufArr[:cfg.bufferSize]
	} else if cap(a.buf) >= cfg.bufferSize {
		a.buf = a.buf[:cfg.bufferSize]
	} else {
		a.buf = make([]byte, cfg.bufferSize)
	}
	a.cursor = 0
	a.filled = 0
	a.pending.reset()
	a.err = nil
	a.replace = cfg.replace
	a.strict = cfg.strict
	a.line = 1
	a.col = 1
	a.lastCR = false
}

// Position returns the 1-based line and column of the next unit.
func (a *Reassembler) Position() (line, column int) {
	return a.line, a.col
}

// Next returns the next code unit. It returns io.EOF when the source is
// exhausted. Any other error is sticky.
func (a *Reassembler) Next() (CodeUnit, error) {
	for {
		if a.cursor < a.filled {
			if a.pending.active() {
				p := &a.pending
				for p.have < p.total && a.cursor < a.filled {
					b := a.buf[a.cursor]
					if a.strict && !isContinuation(b) {
						p.reset()
						return a.malformed("invalid continuation byte", ErrMalformedUnit)
					}
					p.bytes[p.have] = b
					p.have++
					a.cursor++
				}
				if p.have < p.total {
					continue
				}
				u := CodeUnit{b: p.bytes, n: uint8(p.total)}
				p.reset()
				a.advance(u)
				return u, nil
			}
			size := UnitLen(a.buf[a.cursor])
			if size == 0 {
				a.cursor++
				return a.malformed("invalid leading byte", ErrMalformedUnit)
			}
			if a.strict {
				// The first non-continuation byte is left for the next call.
				if n := a.continuations(size); n < size && a.cursor+n < a.filled {
					a.cursor += n
					return a.malformed("invalid continuation byte", ErrMalformedUnit)
				}
			}
			if a.cursor+size > a.filled {
				a.pending.total = size
				a.pending.have = copy(a.pending.bytes[:], a.buf[a.cursor:a.filled])
				a.cursor = a.filled
				continue
			}
			var u CodeUnit
			u.n = uint8(copy(u.b[:], a.buf[a.cursor:a.cursor+size]))
			a.cursor += size
			a.advance(u)
			return u, nil
		}
		if err := a.fill(); err != nil {
			if err == io.EOF && a.pending.active() {
				a.pending.reset()
				return a.malformed("input ends inside a code unit", ErrTruncatedUnit)
			}
			return CodeUnit{}, err
		}
	}
}

func (a *Reassembler) fill() error {
	if a.err != nil {
		return a.err
	}
	a.cursor = 0
	a.filled = 0
	for empty := 0; empty < maxConsecutiveEmptyReads; empty++ {
		n, err := a.r.Read(a.buf)
		if n < 0 || n > len(a.buf) {
			a.err = fmt.Errorf("read: invalid count %d", n)
			return a.err
		}
		if err != nil {
			a.err = err
		}
		if n > 0 {
			a.filled = n
			return nil
		}
		if err != nil {
			return err
		}
	}
	a.err = io.ErrNoProgress
	return a.err
}

// continuations returns the length of the well-formed prefix of the unit
// starting at the cursor, counting the leading byte and stopping at the end
// of the filled buffer.
func (a *Reassembler) continuations(size int) int {
	n := 1
	for n < size && a.cursor+n < a.filled && isContinuation(a.buf[a.cursor+n]) {
		n++
	}
	return n
}

func (a *Reassembler) advance(u CodeUnit) {
	switch {
	case u.Is('\n'):
		if !a.lastCR {
			a.line++
		}
		a.col = 1
		a.lastCR = false
	case u.Is('\r'):
		a.line++
		a.col = 1
		a.lastCR = true
	default:
		a.col++
		a.lastCR = false
	}
}

func (a *Reassembler) malformed(msg string, cause error) (CodeUnit, error) {
	if a.replace {
		a.advance(replacementUnit)
		return replacementUnit, nil
	}
	a.err = &SyntaxError{Line: a.line, Column: a.col, Msg: msg, Err: cause}
	a.cursor = a.filled
	a.pending.reset()
	return CodeUnit{}, a.err
}
