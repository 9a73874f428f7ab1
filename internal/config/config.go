// Package config handles mdhtml.toml configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"pkt.systems/mdhtml"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "mdhtml.toml"

// Config represents an mdhtml.toml file.
type Config struct {
	Schema           string `toml:"schema"`
	BufferSize       int    `toml:"buffer-size"`
	ReplaceMalformed bool   `toml:"replace-malformed"`
	StrictUTF8       bool   `toml:"strict-utf8"`
	StripFrontMatter bool   `toml:"strip-front-matter"`
	Tags             Tags   `toml:"tags"`

	// Path is the file the configuration was loaded from (set at load time).
	Path string `toml:"-"`
}

// Tags overrides individual tags of the selected schema. Empty values keep
// the schema's tag.
type Tags struct {
	HeadingStart   []string `toml:"heading-start"`
	HeadingEnd     []string `toml:"heading-end"`
	LineBreak      string   `toml:"line-break"`
	ParagraphStart string   `toml:"paragraph-start"`
	ParagraphEnd   string   `toml:"paragraph-end"`
}

// Load parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	c.Path, err = filepath.Abs(path)
	if err != nil {
		c.Path = path
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find an mdhtml.toml file and loads
// it. It returns nil, nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", startDir, err)
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func (c *Config) validate() error {
	if c.BufferSize < 0 {
		return fmt.Errorf("buffer-size must be >= 0, got %d", c.BufferSize)
	}
	if n := len(c.Tags.HeadingStart); n > mdhtml.MaxHeadingLevel {
		return fmt.Errorf("tags.heading-start has %d entries, at most %d allowed", n, mdhtml.MaxHeadingLevel)
	}
	if n := len(c.Tags.HeadingEnd); n > mdhtml.MaxHeadingLevel {
		return fmt.Errorf("tags.heading-end has %d entries, at most %d allowed", n, mdhtml.MaxHeadingLevel)
	}
	return nil
}

// ResolveSchema returns the configured built-in schema with tag overrides
// applied.
func (c *Config) ResolveSchema() (mdhtml.Schema, error) {
	base, ok := mdhtml.SchemaByName(c.Schema)
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", c.Schema)
	}
	if c.Tags.empty() {
		return base, nil
	}
	tags := base.Tags()
	for i, s := range c.Tags.HeadingStart {
		if s != "" {
			tags.HeadingStart[i] = s
		}
	}
	for i, s := range c.Tags.HeadingEnd {
		if s != "" {
			tags.HeadingEnd[i] = s
		}
	}
	if c.Tags.LineBreak != "" {
		tags.LineBreak = c.Tags.LineBreak
	}
	if c.Tags.ParagraphStart != "" {
		tags.ParagraphStart = c.Tags.ParagraphStart
	}
	if c.Tags.ParagraphEnd != "" {
		tags.ParagraphEnd = c.Tags.ParagraphEnd
	}
	return mdhtml.NewSchema(base.Name()+"+custom", tags), nil
}

// Options returns the conversion options the file selects.
func (c *Config) Options() []mdhtml.Option {
	return []mdhtml.Option{
		mdhtml.WithBufferSize(c.BufferSize),
		mdhtml.WithReplacement(c.ReplaceMalformed),
		mdhtml.WithStrictUTF8(c.StrictUTF8),
		mdhtml.WithFrontMatter(c.StripFrontMatter),
	}
}

func (t Tags) empty() bool {
	return len(t.HeadingStart) == 0 && len(t.HeadingEnd) == 0 &&
		t.LineBreak == "" && t.ParagraphStart == "" && t.ParagraphEnd == ""
}
