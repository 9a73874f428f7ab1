package mdhtml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
)

func goldenPath(mdPath, schema string) string {
	return strings.TrimSuffix(mdPath, ".md") + "." + schema + ".golden"
}

func TestConvertGolden(t *testing.T) {
	paths, err := filepath.Glob("testdata/*.md")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no fixtures under testdata")
	}
	for _, path := range paths {
		src := readSample(t, path)
		for _, name := range AvailableSchemas() {
			schema, _ := SchemaByName(name)
			want := string(readSample(t, goldenPath(path, name)))
			for _, size := range []int{1, 2, 3, 5, 7, DefaultBufferSize} {
				t.Run(fmt.Sprintf("%s/%s/buf%d", filepath.Base(path), name, size), func(t *testing.T) {
					var out bytes.Buffer
					err := Convert(ConvertRequest{
						Reader:  bytes.NewReader(src),
						Writer:  &out,
						Schema:  schema,
						Options: []Option{WithBufferSize(size)},
					})
					if err != nil {
						t.Fatalf("convert: %v", err)
					}
					if diff := cmp.Diff(want, out.String()); diff != "" {
						t.Fatalf("diff (-want +got):\n%s", diff)
					}
				})
			}
		}
	}
}

func TestConvertRequiresReaderAndWriter(t *testing.T) {
	if err := Convert(ConvertRequest{Writer: &bytes.Buffer{}}); err == nil {
		t.Fatalf("expected error for nil reader")
	}
	if err := Convert(ConvertRequest{Reader: strings.NewReader("")}); err == nil {
		t.Fatalf("expected error for nil writer")
	}
}

func TestConvertNilSchemaUsesDefault(t *testing.T) {
	var out bytes.Buffer
	if err := Convert(ConvertRequest{Reader: strings.NewReader("# a"), Writer: &out}); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if out.String() != "<h1>a</h1>" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestConvertOnErrorCalledOnce(t *testing.T) {
	var calls []error
	var out bytes.Buffer
	err := Convert(ConvertRequest{
		Reader: iotest.TimeoutReader(strings.NewReader("# partial heading")),
		Writer: &out,
		Options: []Option{
			WithBufferSize(4),
		},
		OnError: func(err error) { calls = append(calls, err) },
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, iotest.ErrTimeout) {
		t.Fatalf("expected iotest.ErrTimeout, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "convert: read: ") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
	if len(calls) != 1 || calls[0] != err {
		t.Fatalf("expected one OnError call with the returned error, got %v", calls)
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should be flushed on error, got %q", out.String())
	}

	calls = nil
	if err := Convert(ConvertRequest{
		Reader:  strings.NewReader("fine"),
		Writer:  &out,
		OnError: func(err error) { calls = append(calls, err) },
	}); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("OnError must not be called on success")
	}
}

func TestConvertSyntaxErrorAndReplacement(t *testing.T) {
	var out bytes.Buffer
	err := Convert(ConvertRequest{Reader: strings.NewReader("# a\xff"), Writer: &out})
	if !errors.Is(err, ErrMalformedUnit) {
		t.Fatalf("expected ErrMalformedUnit, got %v", err)
	}
	got := convertString(t, "# a\xff", WithReplacement(true))
	if got != "<h1>a�</h1>" {
		t.Fatalf("unexpected replacement output %q", got)
	}
}

func TestConvertStrictReplacementKeepsLineStructure(t *testing.T) {
	for size := 1; size <= 13; size++ {
		got := convertString(t, "a\xc3\nb\xe4\n# c", WithStrictUTF8(true), WithReplacement(true), WithBufferSize(size))
		if want := "<p>a�</p><p>b�</p><h1>c</h1>"; got != want {
			t.Fatalf("buffer size %d: want %q got %q", size, want, got)
		}
	}
}

func TestConvertSimulated(t *testing.T) {
	src := "# Simulated\n中文 stream\r\n"
	var out bytes.Buffer
	err := ConvertSimulated(SimulateRequest{
		Reader:    strings.NewReader(src),
		Writer:    &out,
		ChunkSize: 1,
	})
	if err != nil {
		t.Fatalf("convert simulated: %v", err)
	}
	want := "<h1>Simulated</h1><br><p>中文 stream</p>"
	if out.String() != want {
		t.Fatalf("want %q got %q", want, out.String())
	}
	if err := ConvertSimulated(SimulateRequest{Reader: strings.NewReader(src), Writer: &out}); err == nil {
		t.Fatalf("expected error for zero chunk size")
	}
}

func TestHTTPConvert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("## Remote\nbody"))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := HTTPConvert(context.Background(), HTTPConvertRequest{
		URL:    srv.URL + "/doc.md",
		Client: srv.Client(),
		Writer: &out,
	})
	if err != nil {
		t.Fatalf("http convert: %v", err)
	}
	if out.String() != "<h2>Remote</h2><br><p>body</p>" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if err := HTTPConvert(context.Background(), HTTPConvertRequest{URL: srv.URL + "/missing", Writer: &out}); err == nil {
		t.Fatalf("expected status error")
	}
	if err := HTTPConvert(context.Background(), HTTPConvertRequest{URL: "ftp://example.com/x", Writer: &out}); err == nil {
		t.Fatalf("expected scheme error")
	}
	if err := HTTPConvert(context.Background(), HTTPConvertRequest{Writer: &out}); err == nil {
		t.Fatalf("expected URL error")
	}
}

func TestConvertWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.html")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := Convert(ConvertRequest{Reader: strings.NewReader("# Hi\nbye"), Writer: f}); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := string(readSample(t, path)); got != "<h1>Hi</h1><br><p>bye</p>" {
		t.Fatalf("unexpected file content %q", got)
	}
}
