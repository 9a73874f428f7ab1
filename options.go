package mdhtml

// DefaultBufferSize is the reassembler fill buffer size.
const DefaultBufferSize = 512

// Option configures the conversion pipeline.
type Option func(*config)

type config struct {
	bufferSize  int
	replace     bool
	strict      bool
	frontMatter bool
}

func newConfig(opts []Option) config {
	cfg := config{bufferSize: DefaultBufferSize}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.bufferSize <= 0 {
		cfg.bufferSize = DefaultBufferSize
	}
	return cfg
}

// WithBufferSize sets the number of bytes requested per read. Values below 1
// select DefaultBufferSize.
func WithBufferSize(n int) Option {
	return func(cfg *config) {
		cfg.bufferSize = n
	}
}

// WithReplacement replaces malformed or truncated units with U+FFFD instead
// of failing with a SyntaxError.
func WithReplacement(enabled bool) Option {
	return func(cfg *config) {
		cfg.replace = enabled
	}
}

// WithStrictUTF8 enables continuation byte validation.
func WithStrictUTF8(enabled bool) Option {
	return func(cfg *config) {
		cfg.strict = enabled
	}
}

// WithFrontMatter strips a leading YAML, TOML or JSON front matter block
// before conversion.
func WithFrontMatter(strip bool) Option {
	return func(cfg *config) {
		cfg.frontMatter = strip
	}
}
