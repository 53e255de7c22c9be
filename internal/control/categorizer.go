package control

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/categorizer/internal/categorize/bucket"
	"github.com/vietddude/categorizer/internal/categorize/compiler"
	"github.com/vietddude/categorizer/internal/categorize/dsl"
	"github.com/vietddude/categorizer/internal/categorize/metrics"
	"github.com/vietddude/categorizer/internal/categorize/report"
	"github.com/vietddude/categorizer/internal/core/domain"
	"github.com/vietddude/categorizer/internal/infra/source"
)

// Categorizer runs one classification pass: it reads records, buckets them
// by the compiled config and prints the report.
type Categorizer struct {
	cfg     Config
	config  *domain.Config
	reader  *source.Reader
	metrics *metrics.Metrics
	log     *slog.Logger
}

// Config holds the settings of a run.
type Config struct {
	// DSLPath is the categorization config file; empty uses the embedded default.
	DSLPath string
	// Inputs are the CSV files to read in order; empty reads stdin.
	Inputs          []string
	Source          source.Options
	StrictSizes     bool
	MetricsTextfile string
}

// Summary describes what a run did with its records.
type Summary struct {
	Read        int
	Classified  int
	Unmatched   int
	OutOfRange  int
	InvalidSize int
	Lines       []string
}

// NewCategorizer compiles the categorization config and prepares the record
// source. Config errors surface here, before any input is read.
func NewCategorizer(cfg Config) (*Categorizer, error) {
	config, err := LoadConfig(cfg.DSLPath)
	if err != nil {
		return nil, err
	}

	reader, err := source.New(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to init record source: %w", err)
	}

	runID := uuid.New().String()
	return &Categorizer{
		cfg:     cfg,
		config:  config,
		reader:  reader,
		metrics: metrics.New(),
		log:     slog.With("run_id", runID),
	}, nil
}

// LoadConfig reads and compiles the categorization config at path, or the
// embedded default when path is empty.
func LoadConfig(path string) (*domain.Config, error) {
	if path == "" {
		return compiler.CompileSource(dsl.Default, dsl.DefaultName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories config: %w", err)
	}

	name := path
	if abs, err := filepath.Abs(path); err == nil {
		name = abs
	}
	return compiler.CompileSource(strings.TrimPrefix(string(data), "\ufeff"), name)
}

// Run classifies all input records and writes the report to out. Nothing is
// written if reading the input fails.
func (c *Categorizer) Run(ctx context.Context, stdin io.Reader, out io.Writer) (*Summary, error) {
	start := time.Now()
	c.log.Info("Categorizing",
		"config", c.config.Source,
		"kind", c.config.Matcher.String(),
		"categories", len(c.config.Categories),
		"inputs", len(c.cfg.Inputs),
	)

	b := bucket.New(c.config)
	summary := &Summary{}

	err := c.reader.ReadFiles(ctx, c.cfg.Inputs, stdin, func(rec domain.Record) error {
		c.classify(b, rec, summary)
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary.Lines = report.Lines(c.config, b)
	if err := report.Write(out, summary.Lines); err != nil {
		return nil, err
	}

	// The report is already out, so a textfile failure only warns.
	c.metrics.RunDuration.Set(time.Since(start).Seconds())
	if c.cfg.MetricsTextfile != "" {
		if err := c.metrics.WriteTextfile(c.cfg.MetricsTextfile); err != nil {
			c.log.Warn("Failed to write metrics textfile", "path", c.cfg.MetricsTextfile, "error", err)
		} else {
			c.log.Debug("Wrote metrics textfile", "path", c.cfg.MetricsTextfile)
		}
	}

	c.log.Info("Categorized",
		"read", summary.Read,
		"classified", summary.Classified,
		"unmatched", summary.Unmatched,
		"out_of_range", summary.OutOfRange,
		"invalid_size", summary.InvalidSize,
		"duration", time.Since(start),
	)
	return summary, nil
}

func (c *Categorizer) classify(b *bucket.Bucket, rec domain.Record, summary *Summary) {
	summary.Read++
	c.metrics.RecordsRead.Inc()

	if c.cfg.StrictSizes && !rec.SizeValid {
		summary.InvalidSize++
		c.metrics.RecordsDropped.WithLabelValues(metrics.ReasonInvalidSize).Inc()
		c.log.Debug("Dropping record with invalid size",
			"source", rec.Source, "line", rec.Line, "size", rec.RawSize)
		return
	}

	outcome, cat := b.Classify(rec)
	switch outcome {
	case bucket.OutcomeClassified:
		summary.Classified++
		c.metrics.RecordsClassified.WithLabelValues(cat.Name).Inc()
		c.metrics.RecordSize.Observe(rec.Size)
	case bucket.OutcomeUnmatched:
		summary.Unmatched++
		c.metrics.RecordsDropped.WithLabelValues(metrics.ReasonUnmatched).Inc()
	case bucket.OutcomeOutOfRange:
		summary.OutOfRange++
		c.metrics.RecordsDropped.WithLabelValues(metrics.ReasonOutOfRange).Inc()
		c.log.Debug("Size below every category",
			"source", rec.Source, "line", rec.Line, "size", rec.Size)
	}
}
