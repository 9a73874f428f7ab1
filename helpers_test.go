package mdhtml

import (
	"bytes"
	"io"
	"os"
	"testing"
)

func convertString(t *testing.T, src string, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	err := Convert(ConvertRequest{
		Reader:  bytes.NewReader([]byte(src)),
		Writer:  &out,
		Schema:  DefaultSchema(),
		Options: opts,
	})
	if err != nil {
		t.Fatalf("convert %q: %v", src, err)
	}
	return out.String()
}

func collectUnits(t *testing.T, r io.Reader, opts ...Option) []string {
	t.Helper()
	a := NewReassembler(r, opts...)
	var out []string
	for {
		u, err := a.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("next unit: %v", err)
		}
		out = append(out, u.String())
	}
}

func collectTokens(t *testing.T, r io.Reader, opts ...Option) []string {
	t.Helper()
	tok := NewTokenizer(r, opts...)
	var out []string
	for {
		tk, err := tok.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("next token: %v", err)
		}
		out = append(out, tk.String())
	}
}

func readSample(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

// countingSink records writes and flushes.
type countingSink struct {
	buf     bytes.Buffer
	flushes int
	failAt  int
	writes  int
}

func (s *countingSink) Write(p []byte) (int, error) {
	s.writes++
	if s.failAt > 0 && s.writes >= s.failAt {
		return 0, errSinkFailed
	}
	return s.buf.Write(p)
}

func (s *countingSink) String() string { return s.buf.String() }

func (s *countingSink) Len() int { return s.buf.Len() }

func (s *countingSink) Flush() error {
	s.flushes++
	return nil
}
