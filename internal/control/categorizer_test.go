package control

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vietddude/categorizer/internal/categorize/compiler"
	"github.com/vietddude/categorizer/internal/categorize/dsl"
	"github.com/vietddude/categorizer/internal/infra/source"
)

const tunaDSL = `kind 'Tuna'
category 0,'S'
category 50,'M'
category 75,'L'
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func utf8Options() source.Options {
	opts := source.DefaultOptions()
	opts.Encoding = "utf-8"
	return opts
}

func TestCategorizer_Run(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		DSLPath: writeFile(t, dir, "tuna.dsl", tunaDSL),
		Source:  utf8Options(),
	}

	c, err := NewCategorizer(cfg)
	if err != nil {
		t.Fatalf("NewCategorizer failed: %v", err)
	}
	if c.log == nil {
		t.Error("Expected a run logger")
	}

	var out bytes.Buffer
	stdin := strings.NewReader("Tuna,10\nTuna,60\nTuna,80\nSalmon,90\nTuna,-3\n")
	summary, err := c.Run(context.Background(), stdin, &out)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got, want := out.String(), "S(1): 10.00cm\nM(1): 60.00cm\nL(1): 80.00cm\n"; got != want {
		t.Errorf("Report = %q, want %q", got, want)
	}

	want := &Summary{Read: 5, Classified: 3, Unmatched: 1, OutOfRange: 1,
		Lines: []string{"S(1): 10.00cm", "M(1): 60.00cm", "L(1): 80.00cm"}}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}

	m := c.metrics
	if got := testutil.ToFloat64(m.RecordsRead); got != 5 {
		t.Errorf("Expected 5 records read, got %v", got)
	}
	if got := testutil.ToFloat64(m.RecordsClassified.WithLabelValues("M")); got != 1 {
		t.Errorf("Expected 1 record in M, got %v", got)
	}
	if got := testutil.ToFloat64(m.RecordsDropped.WithLabelValues("out_of_range")); got != 1 {
		t.Errorf("Expected 1 out of range record, got %v", got)
	}
}

func TestCategorizer_RunEmptyCategories(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCategorizer(Config{
		DSLPath: writeFile(t, dir, "tuna.dsl", tunaDSL),
		Source:  utf8Options(),
	})
	if err != nil {
		t.Fatalf("NewCategorizer failed: %v", err)
	}

	var out bytes.Buffer
	if _, err := c.Run(context.Background(), strings.NewReader("Tuna,80\n"), &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, want := out.String(), "S(0): NaNcm\nM(0): NaNcm\nL(1): 80.00cm\n"; got != want {
		t.Errorf("Report = %q, want %q", got, want)
	}
}

func TestCategorizer_StrictSizes(t *testing.T) {
	dir := t.TempDir()
	input := "Tuna,10\nTuna,abc\nTuna,12.5\n"

	for _, strict := range []bool{false, true} {
		c, err := NewCategorizer(Config{
			DSLPath:     writeFile(t, dir, "tuna.dsl", tunaDSL),
			Inputs:      []string{writeFile(t, dir, "in.csv", input)},
			Source:      utf8Options(),
			StrictSizes: strict,
		})
		if err != nil {
			t.Fatalf("NewCategorizer failed: %v", err)
		}

		var out bytes.Buffer
		summary, err := c.Run(context.Background(), nil, &out)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if strict {
			if summary.InvalidSize != 2 || summary.Lines[0] != "S(1): 10.00cm" {
				t.Errorf("strict: unexpected summary %+v", summary)
			}
		} else {
			// abc coerces to 0, 12.5 to 12
			if summary.InvalidSize != 0 || summary.Lines[0] != "S(3): 7.33cm" {
				t.Errorf("lenient: unexpected summary %+v", summary)
			}
		}
	}
}

func TestCategorizer_DefaultConfigShiftJIS(t *testing.T) {
	c, err := NewCategorizer(Config{Source: source.DefaultOptions()})
	if err != nil {
		t.Fatalf("NewCategorizer failed: %v", err)
	}
	if c.config.Source != dsl.DefaultName {
		t.Errorf("Expected default config, got %s", c.config.Source)
	}

	// "カツオ,30" and "カツオ,77" in Shift_JIS
	input := "\x83\x4a\x83\x63\x83\x49,30\n\x83\x4a\x83\x63\x83\x49,77\n"
	var out bytes.Buffer
	if _, err := c.Run(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, want := out.String(), "S(1): 30.00cm\nM(0): NaNcm\nL(1): 77.00cm\n"; got != want {
		t.Errorf("Report = %q, want %q", got, want)
	}
}

func TestCategorizer_MetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	prom := filepath.Join(dir, "run.prom")
	c, err := NewCategorizer(Config{
		DSLPath:         writeFile(t, dir, "tuna.dsl", tunaDSL),
		Source:          utf8Options(),
		MetricsTextfile: prom,
	})
	if err != nil {
		t.Fatalf("NewCategorizer failed: %v", err)
	}

	if _, err := c.Run(context.Background(), strings.NewReader("Tuna,10\n"), &bytes.Buffer{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	data, err := os.ReadFile(prom)
	if err != nil {
		t.Fatalf("Expected metrics textfile: %v", err)
	}
	if !strings.Contains(string(data), `categorize_records_classified_total{category="S"} 1`) {
		t.Errorf("Unexpected textfile:\n%s", data)
	}
}

func TestCategorizer_MetricsTextfileFailureKeepsReport(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCategorizer(Config{
		DSLPath:         writeFile(t, dir, "tuna.dsl", tunaDSL),
		Source:          utf8Options(),
		MetricsTextfile: filepath.Join(dir, "missing", "run.prom"),
	})
	if err != nil {
		t.Fatalf("NewCategorizer failed: %v", err)
	}

	var out bytes.Buffer
	summary, err := c.Run(context.Background(), strings.NewReader("Tuna,60\n"), &out)
	if err != nil {
		t.Fatalf("Expected run to succeed when the textfile cannot be written, got %v", err)
	}
	if summary.Classified != 1 {
		t.Errorf("Expected 1 classified record, got %d", summary.Classified)
	}
	if got, want := out.String(), "S(0): NaNcm\nM(1): 60.00cm\nL(0): NaNcm\n"; got != want {
		t.Errorf("Report = %q, want %q", got, want)
	}
}

func TestNewCategorizer_ConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewCategorizer(Config{
		DSLPath: writeFile(t, dir, "bad.dsl", "kind 'Tuna'\ncategory 50,'M'\ncategory 30,'M2'\n"),
		Source:  utf8Options(),
	})
	if !errors.Is(err, compiler.ErrNotAscending) {
		t.Errorf("Expected ErrNotAscending, got %v", err)
	}

	_, err = NewCategorizer(Config{
		DSLPath: writeFile(t, dir, "nokind.dsl", "category 0,'S'\n"),
		Source:  utf8Options(),
	})
	if !errors.Is(err, compiler.ErrKindNotSpecified) {
		t.Errorf("Expected ErrKindNotSpecified, got %v", err)
	}

	if _, err := NewCategorizer(Config{DSLPath: filepath.Join(dir, "missing.dsl"), Source: utf8Options()}); err == nil {
		t.Error("Expected error for missing config file")
	}

	if _, err := NewCategorizer(Config{Source: source.Options{Encoding: "nope"}}); !errors.Is(err, source.ErrUnknownEncoding) {
		t.Errorf("Expected ErrUnknownEncoding, got %v", err)
	}
}

func TestCategorizer_NoOutputOnReadError(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCategorizer(Config{
		DSLPath: writeFile(t, dir, "tuna.dsl", tunaDSL),
		Inputs:  []string{writeFile(t, dir, "a.csv", "Tuna,10\n"), filepath.Join(dir, "missing.csv")},
		Source:  utf8Options(),
	})
	if err != nil {
		t.Fatalf("NewCategorizer failed: %v", err)
	}

	var out bytes.Buffer
	if _, err := c.Run(context.Background(), nil, &out); err == nil {
		t.Fatal("Expected error for missing input")
	}
	if out.Len() != 0 {
		t.Errorf("Expected no partial output, got %q", out.String())
	}
}

func TestLoadConfig_BOM(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bom.dsl", "\ufeff"+tunaDSL)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(cfg.Categories) != 3 {
		t.Errorf("Expected 3 categories, got %d", len(cfg.Categories))
	}
}
