package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"golang.org/x/term"
	"pkt.systems/mdhtml"
	"pkt.systems/mdhtml/internal/config"
	"pkt.systems/version"
)

const (
	defaultSchemaName = "html"
	defaultWidth      = 80
	defaultChunkSize  = 3
	defaultDelay      = 20 * time.Millisecond
)

var log = commonlog.GetLogger("mdhtml")

func init() {
	version.SetDefaultModule("pkt.systems/mdhtml")
}

type options struct {
	schemaName   string
	configPath   string
	outPath      string
	bufferSize   int
	replace      bool
	strict       bool
	frontMatter  bool
	check        bool
	simulate     bool
	simChunkSize int
	simDelay     time.Duration
	listSchemas  bool
	showVersion  bool
	verbose      int
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command and returns the process exit code. Deferred
// cleanup runs before main exits.
func run(args []string) int {
	var opts options
	flags := pflag.NewFlagSet("mdhtml", pflag.ExitOnError)
	flags.StringVarP(&opts.schemaName, "schema", "s", defaultSchemaName, "Output schema name")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default: nearest "+config.FileName+")")
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout (removed if conversion fails)")
	flags.IntVar(&opts.bufferSize, "buffer-size", mdhtml.DefaultBufferSize, "Read buffer size in bytes")
	flags.BoolVar(&opts.replace, "replace", false, "Replace malformed UTF-8 with U+FFFD instead of failing")
	flags.BoolVar(&opts.strict, "strict", false, "Validate UTF-8 continuation bytes")
	flags.BoolVar(&opts.frontMatter, "front-matter", false, "Strip leading YAML/TOML/JSON front matter")
	flags.BoolVar(&opts.check, "check", false, "Only validate input encoding, write nothing (honours --front-matter, ignores --replace)")
	flags.BoolVar(&opts.simulate, "simulate", false, "Stream simulator (use default delay and chunk size)")
	flags.IntVar(&opts.simChunkSize, "simulate-chunk", defaultChunkSize, "Max bytes per stream chunk")
	flags.DurationVar(&opts.simDelay, "simulate-delay", defaultDelay, "Delay per stream chunk")
	flags.BoolVar(&opts.listSchemas, "list-schemas", false, "List available schemas")
	flags.BoolVar(&opts.showVersion, "version", false, "Print version and exit")
	flags.CountVarP(&opts.verbose, "verbose", "v", "Increase log verbosity (repeatable)")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: mdhtml [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nIf no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}
	commonlog.Configure(opts.verbose, nil)

	if opts.showVersion {
		fmt.Fprintln(os.Stdout, version.Module(), version.Current())
		return 0
	}
	if opts.listSchemas {
		printSchemas(os.Stdout, terminalWidth(defaultWidth))
		return 0
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}
	applyFlags(cfg, flags, opts)
	if cfg.Path != "" {
		log.Debugf("using config %s", cfg.Path)
	}

	schema, err := cfg.ResolveSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n", err)
		printSchemas(os.Stderr, terminalWidth(defaultWidth))
		return 2
	}

	inputs := flags.Args()
	reader, closer, err := openInputs(inputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		return 1
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	if opts.simulate {
		reader = mdhtml.NewChunkReader(reader, opts.simChunkSize, opts.simDelay)
	}

	if opts.check {
		if err := mdhtml.Validate(reader, cfg.Options()...); err != nil {
			fmt.Fprintf(os.Stderr, "check: %v\n", err)
			return 1
		}
		log.Infof("input is valid")
		return 0
	}

	writer, closeOut, err := resolveOutput(opts.outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open output: %v\n", err)
		return 1
	}

	log.Infof("converting %d input(s) with schema %s", max(len(inputs), 1), schema.Name())
	start := time.Now()
	err = mdhtml.Convert(mdhtml.ConvertRequest{
		Reader:  reader,
		Writer:  writer,
		Schema:  schema,
		Options: cfg.Options(),
		OnError: func(err error) {
			log.Debugf("conversion aborted after %s", time.Since(start))
		},
	})
	if closeOut != nil {
		if cerr := closeOut.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(normalizePath(opts.outPath))
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if isTerminal(writer) {
		fmt.Fprintln(writer)
	}
	log.Infof("done in %s", time.Since(start))
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(normalizePath(path))
	}
	wd, err := os.Getwd()
	if err != nil {
		return &config.Config{}, nil
	}
	cfg, err := config.FindAndLoad(wd)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return &config.Config{}, nil
	}
	return cfg, nil
}

// applyFlags lets explicitly set flags override file values.
func applyFlags(cfg *config.Config, flags *pflag.FlagSet, opts options) {
	if flags.Changed("schema") || cfg.Schema == "" {
		cfg.Schema = opts.schemaName
	}
	if flags.Changed("buffer-size") || cfg.BufferSize == 0 {
		cfg.BufferSize = opts.bufferSize
	}
	if flags.Changed("replace") {
		cfg.ReplaceMalformed = opts.replace
	}
	if flags.Changed("strict") {
		cfg.StrictUTF8 = opts.strict
	}
	if flags.Changed("front-matter") {
		cfg.StripFrontMatter = opts.frontMatter
	}
}

func printSchemas(w io.Writer, width int) {
	names := mdhtml.AvailableSchemas()
	col := 0
	for _, name := range names {
		if n := ansi.PrintableRuneWidth(name); n > col {
			col = n
		}
	}
	col += 2
	descWidth := width - col
	if descWidth < 20 {
		descWidth = 20
	}
	pad := strings.Repeat(" ", col)
	for _, name := range names {
		desc := wordwrap.String(mdhtml.SchemaDescription(name), descWidth)
		lines := strings.Split(desc, "\n")
		fmt.Fprintf(w, "%s%s%s\n", name, pad[ansi.PrintableRuneWidth(name):], lines[0])
		for _, line := range lines[1:] {
			fmt.Fprintf(w, "%s%s\n", pad, line)
		}
	}
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(args []string) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return os.Stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	m := &multiInputReader{sources: sources}
	return m, m, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(raw string) (io.Reader, io.Closer, error) {
	log.Debugf("fetching %s", raw)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	clean := normalizePath(path)
	log.Debugf("opening %s", clean)
	f, err := os.Open(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
