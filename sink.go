package mdhtml

import "io"

// Sink receives converted output. Writes are buffered by the sink and made
// durable by Flush, which the parser calls once at end of input.
// *bufio.Writer satisfies Sink.
type Sink interface {
	io.Writer
	Flush() error
}
