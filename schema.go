package mdhtml

import (
	"sort"
	"strings"
)

// Tags is the markup written for each structural event.
type Tags struct {
	HeadingStart   [MaxHeadingLevel]string
	HeadingEnd     [MaxHeadingLevel]string
	LineBreak      string
	ParagraphStart string
	ParagraphEnd   string
}

// Schema provides named markup for the converter.
type Schema interface {
	Name() string
	Tags() Tags
}

type schema struct {
	name string
	tags Tags
}

func (s schema) Name() string { return s.name }
func (s schema) Tags() Tags   { return s.tags }

// NewSchema returns a Schema from a Tags definition.
func NewSchema(name string, tags Tags) Schema {
	return schema{name: name, tags: tags}
}

// HTMLTags returns the plain HTML tag set with lineBreak as the line break
// element and suffix appended after every closing tag and line break.
func HTMLTags(lineBreak, suffix string) Tags {
	return Tags{
		HeadingStart:   [MaxHeadingLevel]string{"<h1>", "<h2>", "<h3>", "<h4>", "<h5>", "<h6>"},
		HeadingEnd:     [MaxHeadingLevel]string{"</h1>" + suffix, "</h2>" + suffix, "</h3>" + suffix, "</h4>" + suffix, "</h5>" + suffix, "</h6>" + suffix},
		LineBreak:      lineBreak + suffix,
		ParagraphStart: "<p>",
		ParagraphEnd:   "</p>" + suffix,
	}
}

var builtinSchemas = map[string]Schema{
	"html":        schema{name: "html", tags: HTMLTags("<br>", "")},
	"xhtml":       schema{name: "xhtml", tags: HTMLTags("<br />", "")},
	"html-pretty": schema{name: "html-pretty", tags: HTMLTags("<br>", "\n")},
}

var schemaDescriptions = map[string]string{
	"html":        "HTML fragments with <br> line breaks, no whitespace between elements.",
	"xhtml":       "Same as html but with self-closing <br /> line breaks.",
	"html-pretty": "HTML fragments with a newline after each closing tag and line break.",
}

// AvailableSchemas returns the names of built-in schemas.
func AvailableSchemas() []string {
	names := make([]string, 0, len(builtinSchemas))
	for name := range builtinSchemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SchemaDescription returns a one-line description of a built-in schema.
func SchemaDescription(name string) string {
	return schemaDescriptions[name]
}

// SchemaByName returns a built-in schema by name.
func SchemaByName(name string) (Schema, bool) {
	if name == "" {
		return builtinSchemas["html"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	s, ok := builtinSchemas[normalized]
	return s, ok
}

// DefaultSchema returns the html schema.
func DefaultSchema() Schema {
	return builtinSchemas["html"]
}
