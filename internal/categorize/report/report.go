// Package report renders the per-category counts and average sizes of a
// classification run.
package report

import (
	"fmt"
	"io"

	"github.com/vietddude/categorizer/internal/categorize/bucket"
	"github.com/vietddude/categorizer/internal/core/domain"
)

// Lines returns one line per category of cfg in declared order:
//
//	<name>(<count>): <average>cm
//
// with the average printed to two decimals. An empty category has no
// average; it prints as NaN.
func Lines(cfg *domain.Config, b *bucket.Bucket) []string {
	lines := make([]string, 0, len(cfg.Categories))
	for _, c := range cfg.Categories {
		lines = append(lines, fmt.Sprintf("%s(%d): %.2fcm", c.Name, b.Count(c), b.Mean(c)))
	}
	return lines
}

// Write writes lines to w, each terminated by a newline.
func Write(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := io.WriteString(w, l+"\n"); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}
