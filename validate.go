package mdhtml

import (
	"bytes"
	"io"
)

// ValidateInput returns a *SyntaxError if src contains a malformed or
// truncated code unit. Continuation bytes are checked.
func ValidateInput(src []byte, opts ...Option) error {
	return Validate(bytes.NewReader(src), opts...)
}

// Validate reads r to the end and reports the first malformed or truncated
// code unit. Read errors are returned as-is. Continuation bytes are always
// checked and WithReplacement is ignored; WithFrontMatter skips a leading
// front matter block as Convert would.
func Validate(r io.Reader, opts ...Option) error {
	cfg := newConfig(opts)
	cfg.strict = true
	cfg.replace = false
	if cfg.frontMatter {
		fm := frontMatterPool.Get().(*frontMatterReader)
		defer func() {
			fm.reset(nil)
			frontMatterPool.Put(fm)
		}()
		fm.reset(r)
		r = fm
	}
	var a Reassembler
	a.resetWithConfig(r, cfg)
	for {
		if _, err := a.Next(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func isContinuation(b byte) bool {
	return b&0b1100_0000 == 0b1000_0000
}
