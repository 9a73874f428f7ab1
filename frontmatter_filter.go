package mdhtml

import (
	"bytes"
	"io"
)

// maxFrontMatterBytes bounds how much input is held back while looking for
// the end of a front matter block.
const maxFrontMatterBytes = 64 * 1024

var frontMatterDelimiters = [...]string{"---", "+++", ";;;"}

// frontMatterReader drops a front matter block at the start of r. Input is
// held back until the block is complete or ruled out; after that reads
// pass through.
type frontMatterReader struct {
	r       io.Reader
	held    []byte
	out     []byte
	decided bool
	err     error

	heldArr [4096]byte
	readArr [512]byte
}

func (f *frontMatterReader) reset(r io.Reader) {
	f.r = r
	f.held = f.heldArr[:0]
	f.out = nil
	f.decided = false
	f.err = nil
}

func (f *frontMatterReader) Read(p []byte) (int, error) {
	for !f.decided {
		n, err := f.r.Read(f.readArr[:])
		if n == 0 && err == nil {
			return 0, nil
		}
		f.held = append(f.held, f.readArr[:n]...)
		f.err = err
		if len(f.held) > maxFrontMatterBytes {
			f.out, f.decided = f.held, true
			break
		}
		f.out, f.decided = f.strip(err != nil)
	}
	if len(f.out) > 0 {
		n := copy(p, f.out)
		f.out = f.out[n:]
		return n, nil
	}
	if f.err != nil {
		return 0, f.err
	}
	return f.r.Read(p)
}

// strip returns the held input with any complete front matter block
// removed. It reports false while more input is needed to decide; with
// final set it always decides.
func (f *frontMatterReader) strip(final bool) ([]byte, bool) {
	src := f.held
	open, rest, ok := cutLine(src, final)
	if !ok {
		return src, final
	}
	delim := openingDelimiter(open)
	if delim == "" {
		return src, true
	}
	meta, _, ok := cutLine(rest, final)
	if !ok {
		return src, final
	}
	if !looksLikeMetadata(meta) {
		return src, true
	}
	for {
		line, next, ok := cutLine(rest, final)
		if !ok {
			return src, final
		}
		if string(bytes.TrimSpace(line)) == delim {
			return next, true
		}
		rest = next
	}
}

// cutLine splits off the first line of src without its terminator. An
// unterminated last line only counts once the input is final.
func cutLine(src []byte, final bool) (line, rest []byte, ok bool) {
	if i := bytes.IndexByte(src, '\n'); i >= 0 {
		return bytes.TrimSuffix(src[:i], []byte{'\r'}), src[i+1:], true
	}
	if final && len(src) > 0 {
		return bytes.TrimSuffix(src, []byte{'\r'}), nil, true
	}
	return nil, nil, false
}

func openingDelimiter(line []byte) string {
	line = bytes.TrimSpace(bytes.TrimPrefix(line, []byte("\xEF\xBB\xBF")))
	for _, d := range frontMatterDelimiters {
		if string(line) == d {
			return d
		}
	}
	return ""
}

func looksLikeMetadata(line []byte) bool {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return false
	}
	if line[0] == '{' || line[0] == '[' {
		return true
	}
	return bytes.ContainsAny(line, ":=")
}
