// Package source reads measurement records from CSV input.
//
// Input is decoded from a configurable text encoding (Windows-31J unless told
// otherwise) before it is tokenized. Each row yields one record built from
// its species and size columns; the size is coerced leniently, see ParseSize.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/vietddude/categorizer/internal/core/domain"
)

// StdinName is the source name used for standard input.
const StdinName = "<stdin>"

// ContextCheckInterval is how often (in rows) to check for cancellation.
var ContextCheckInterval = 100

var ErrUnknownEncoding = errors.New("unknown encoding")

// Options controls how rows are turned into records.
type Options struct {
	// Encoding is a WHATWG encoding label such as "windows-31j" or "utf-8".
	Encoding      string
	SpeciesColumn int
	SizeColumn    int
}

// DefaultOptions matches the layout of the fish data CSV files.
func DefaultOptions() Options {
	return Options{
		Encoding:      "windows-31j",
		SpeciesColumn: 0,
		SizeColumn:    1,
	}
}

// Reader turns CSV input into records.
type Reader struct {
	opts Options
	enc  encoding.Encoding
}

// New validates opts and creates a Reader.
func New(opts Options) (*Reader, error) {
	enc, err := htmlindex.Get(opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownEncoding, opts.Encoding)
	}
	if opts.SpeciesColumn < 0 || opts.SizeColumn < 0 {
		return nil, fmt.Errorf("column index must not be negative: species=%d size=%d",
			opts.SpeciesColumn, opts.SizeColumn)
	}
	return &Reader{opts: opts, enc: enc}, nil
}

// ReadFiles reads the named files in order, as if they were one stream.
// With no paths, or for the path "-", stdin is read instead.
func (r *Reader) ReadFiles(ctx context.Context, paths []string, stdin io.Reader, fn func(domain.Record) error) error {
	if len(paths) == 0 {
		return r.Read(ctx, stdin, StdinName, fn)
	}

	for _, path := range paths {
		if path == "-" {
			if err := r.Read(ctx, stdin, StdinName, fn); err != nil {
				return err
			}
			continue
		}
		if err := r.readFile(ctx, path, fn); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) readFile(ctx context.Context, path string, fn func(domain.Record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return r.Read(ctx, f, path, fn)
}

// Read decodes in and calls fn for every row, in order. name identifies the
// input in records and errors.
func (r *Reader) Read(ctx context.Context, in io.Reader, name string, fn func(domain.Record) error) error {
	decoded := transform.NewReader(in, unicode.BOMOverride(r.enc.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	for rows := 0; ; rows++ {
		if rows%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("operation cancelled: %w", err)
			}
		}

		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		line, _ := cr.FieldPos(0)

		if r.opts.SpeciesColumn >= len(row) {
			slog.Debug("Skipping row without species column", "source", name, "line", line, "fields", len(row))
			continue
		}

		rec := domain.Record{
			Species: row[r.opts.SpeciesColumn],
			Source:  name,
			Line:    line,
		}
		if r.opts.SizeColumn < len(row) {
			rec.RawSize = row[r.opts.SizeColumn]
		}
		rec.Size, rec.SizeValid = ParseSize(rec.RawSize)

		if err := fn(rec); err != nil {
			return err
		}
	}
}
