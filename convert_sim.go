package mdhtml

import (
	"fmt"
	"io"
	"time"
)

// SimulateRequest configures ConvertSimulated.
type SimulateRequest struct {
	Reader    io.Reader
	Writer    io.Writer
	Schema    Schema
	ChunkSize int
	Delay     time.Duration
	Options   []Option
}

// ConvertSimulated converts Reader as if it arrived over a slow stream: every
// read returns at most ChunkSize bytes and is followed by Delay.
func ConvertSimulated(req SimulateRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("convert simulate: Reader is nil")
	}
	if req.ChunkSize <= 0 {
		return fmt.Errorf("convert simulate: ChunkSize must be > 0")
	}
	return Convert(ConvertRequest{
		Reader:  NewChunkReader(req.Reader, req.ChunkSize, req.Delay),
		Writer:  req.Writer,
		Schema:  req.Schema,
		Options: req.Options,
	})
}

// ChunkReader limits every read to at most a fixed number of bytes and
// optionally sleeps after each non-empty read.
type ChunkReader struct {
	r        io.Reader
	delay    time.Duration
	maxChunk int
}

// NewChunkReader wraps r. A maxChunk of 0 or less leaves reads unlimited.
func NewChunkReader(r io.Reader, maxChunk int, delay time.Duration) *ChunkReader {
	return &ChunkReader{r: r, delay: delay, maxChunk: maxChunk}
}

func (s *ChunkReader) Read(p []byte) (int, error) {
	if s.maxChunk > 0 && len(p) > s.maxChunk {
		p = p[:s.maxChunk]
	}
	n, err := s.r.Read(p)
	if n > 0 && s.delay > 0 {
		time.Sleep(s.delay)
	}
	return n, err
}
