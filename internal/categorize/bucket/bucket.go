// Package bucket classifies records into the categories of a config and
// accumulates the sizes seen per category.
package bucket

import (
	"math"

	"github.com/vietddude/categorizer/internal/core/domain"
)

// Outcome is what Classify did with a record.
type Outcome int

const (
	OutcomeClassified Outcome = iota
	// OutcomeUnmatched means the species was rejected by the matcher.
	OutcomeUnmatched
	// OutcomeOutOfRange means no category contains the size.
	OutcomeOutOfRange
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClassified:
		return "classified"
	case OutcomeUnmatched:
		return "unmatched"
	case OutcomeOutOfRange:
		return "out_of_range"
	default:
		return "unknown"
	}
}

// Bucket owns the aggregation state of one classification run. It is not
// safe for concurrent use.
type Bucket struct {
	cfg   *domain.Config
	sizes map[*domain.Category][]float64
}

// New creates an empty bucket for cfg.
func New(cfg *domain.Config) *Bucket {
	return &Bucket{
		cfg:   cfg,
		sizes: make(map[*domain.Category][]float64, len(cfg.Categories)),
	}
}

// Classify files rec under the first category whose range contains its
// size. Records the matcher rejects, or that fall below every range, are
// dropped.
func (b *Bucket) Classify(rec domain.Record) (Outcome, *domain.Category) {
	if !b.cfg.Matcher.Match(rec.Species) {
		return OutcomeUnmatched, nil
	}

	cat := b.Find(rec.Size)
	if cat == nil {
		return OutcomeOutOfRange, nil
	}
	b.sizes[cat] = append(b.sizes[cat], rec.Size)
	return OutcomeClassified, cat
}

// ClassifyAll classifies records in order.
func (b *Bucket) ClassifyAll(records []domain.Record) {
	for _, rec := range records {
		b.Classify(rec)
	}
}

// Find returns the category containing size, or nil.
func (b *Bucket) Find(size float64) *domain.Category {
	for _, c := range b.cfg.Categories {
		if c.Range.Contains(size) {
			return c
		}
	}
	return nil
}

// Categories returns the configured categories in declared order.
func (b *Bucket) Categories() []*domain.Category {
	return b.cfg.Categories
}

// Sizes returns the sizes classified into cat, in insertion order.
func (b *Bucket) Sizes(cat *domain.Category) []float64 {
	return b.sizes[cat]
}

// Count returns the number of sizes classified into cat.
func (b *Bucket) Count(cat *domain.Category) int {
	return len(b.sizes[cat])
}

// Sum returns the total of the sizes classified into cat.
func (b *Bucket) Sum(cat *domain.Category) float64 {
	sum := 0.0
	for _, s := range b.sizes[cat] {
		sum += s
	}
	return sum
}

// Mean returns the arithmetic mean of cat's sizes. An empty category has
// no mean and yields NaN.
func (b *Bucket) Mean(cat *domain.Category) float64 {
	n := b.Count(cat)
	if n == 0 {
		return math.NaN()
	}
	return b.Sum(cat) / float64(n)
}

// Total returns the number of records classified into any category.
func (b *Bucket) Total() int {
	total := 0
	for _, s := range b.sizes {
		total += len(s)
	}
	return total
}
