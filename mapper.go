package mdhtml

import (
	"fmt"
	"io"
)

var hashStringsWithSpace = [...]string{
	"",
	"# ",
	"## ",
	"### ",
	"#### ",
	"##### ",
	"###### ",
}

// Mapper translates parser events into schema markup written to a sink.
type Mapper struct {
	tags    Tags
	sink    Sink
	scratch [64]byte
}

// NewMapper returns a Mapper writing s's markup to sink. A nil schema
// selects DefaultSchema.
func NewMapper(s Schema, sink Sink) *Mapper {
	m := &Mapper{}
	m.Reset(s, sink)
	return m
}

// Reset points m at a new schema and sink.
func (m *Mapper) Reset(s Schema, sink Sink) {
	if s == nil {
		s = DefaultSchema()
	}
	m.tags = s.Tags()
	m.sink = sink
}

// WriteHeadingStart writes the start tag for a heading of the given level.
func (m *Mapper) WriteHeadingStart(level int) error {
	if level < 1 || level > MaxHeadingLevel {
		return fmt.Errorf("heading start %d: %w", level, ErrHeadingLevel)
	}
	return m.writeString(m.tags.HeadingStart[level-1])
}

// WriteHeadingEnd writes the end tag for a heading of the given level.
func (m *Mapper) WriteHeadingEnd(level int) error {
	if level < 1 || level > MaxHeadingLevel {
		return fmt.Errorf("heading end %d: %w", level, ErrHeadingLevel)
	}
	return m.writeString(m.tags.HeadingEnd[level-1])
}

// WriteLiteralHeading reproduces a heading marker as text: level '#'
// characters and one space.
func (m *Mapper) WriteLiteralHeading(level int) error {
	if level < 1 || level > MaxHeadingLevel {
		return fmt.Errorf("literal heading %d: %w", level, ErrHeadingLevel)
	}
	return m.writeString(hashStringsWithSpace[level])
}

// WriteParagraphStart writes the paragraph start tag.
func (m *Mapper) WriteParagraphStart() error {
	return m.writeString(m.tags.ParagraphStart)
}

// WriteParagraphEnd writes the paragraph end tag.
func (m *Mapper) WriteParagraphEnd() error {
	return m.writeString(m.tags.ParagraphEnd)
}

// WriteLineBreak writes the line break element.
func (m *Mapper) WriteLineBreak() error {
	return m.writeString(m.tags.LineBreak)
}

// WriteUnit writes one code unit verbatim.
func (m *Mapper) WriteUnit(u CodeUnit) error {
	_, err := m.sink.Write(u.b[:u.n])
	return err
}

// WriteChunk writes units verbatim, in order.
func (m *Mapper) WriteChunk(units []CodeUnit) error {
	buf := m.scratch[:0]
	for _, u := range units {
		if len(buf)+u.Len() > cap(buf) {
			if _, err := m.sink.Write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
		buf = u.AppendTo(buf)
	}
	if len(buf) == 0 {
		return nil
	}
	_, err := m.sink.Write(buf)
	return err
}

// Flush flushes the sink.
func (m *Mapper) Flush() error {
	return m.sink.Flush()
}

func (m *Mapper) writeString(s string) error {
	if s == "" {
		return nil
	}
	_, err := io.WriteString(m.sink, s)
	return err
}
