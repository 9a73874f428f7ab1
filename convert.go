package mdhtml

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

var parserPool = sync.Pool{
	New: func() any {
		return &Parser{}
	},
}

var sinkPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(nil, 4096)
	},
}

var mapperPool = sync.Pool{
	New: func() any {
		return &Mapper{}
	},
}

var frontMatterPool = sync.Pool{
	New: func() any {
		return &frontMatterReader{}
	},
}

// ConvertRequest configures Convert.
type ConvertRequest struct {
	Reader  io.Reader
	Writer  io.Writer
	Schema  Schema
	Options []Option
	// OnError, if set, is called once with the error Convert returns.
	OnError func(error)
}

// Convert reads constrained Markdown from Reader and writes HTML to Writer.
// Output is buffered and flushed once at end of input; on error nothing
// further is flushed.
func Convert(req ConvertRequest) error {
	err := convert(req)
	if err != nil && req.OnError != nil {
		req.OnError(err)
	}
	return err
}

func convert(req ConvertRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("convert: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("convert: writer is nil")
	}
	cfg := newConfig(req.Options)
	src := req.Reader
	var fm *frontMatterReader
	if cfg.frontMatter {
		fm = frontMatterPool.Get().(*frontMatterReader)
		fm.reset(src)
		src = fm
	}
	parser := parserPool.Get().(*Parser)
	parser.resetWithConfig(src, cfg)
	sink := sinkPool.Get().(*bufio.Writer)
	sink.Reset(req.Writer)
	mapper := mapperPool.Get().(*Mapper)
	mapper.Reset(req.Schema, sink)

	var retErr error
	if err := parser.Run(mapper); err != nil {
		retErr = fmt.Errorf("convert: %w", err)
	}

	mapper.Reset(nil, nil)
	mapperPool.Put(mapper)
	sink.Reset(nil)
	sinkPool.Put(sink)
	parser.resetWithConfig(nil, config{})
	parserPool.Put(parser)
	if fm != nil {
		fm.reset(nil)
		frontMatterPool.Put(fm)
	}
	return retErr
}
