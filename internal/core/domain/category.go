package domain

import (
	"fmt"
	"math"
	"strconv"
)

// NotDataName names the synthetic terminal threshold. It only supplies the
// upper bound of the last category and never names a category itself.
const NotDataName = "**NOT DATA**"

// Range is a half-open size interval [Lower, Upper).
type Range struct {
	Lower float64
	Upper float64
}

// Contains reports whether v lies in [Lower, Upper).
func (r Range) Contains(v float64) bool {
	return r.Lower <= v && v < r.Upper
}

// Unbounded reports whether the range is open-ended to +Inf.
func (r Range) Unbounded() bool {
	return math.IsInf(r.Upper, 1)
}

// String returns the range in "[lower, upper)" format.
func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", FormatLimit(r.Lower), FormatLimit(r.Upper))
}

// FormatLimit renders a range bound, spelling infinities out.
func FormatLimit(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Category is a named size range. Categories are handled by pointer and
// compared by identity, so two categories may share a name.
type Category struct {
	Name  string
	Range Range
}

// NewCategory creates a category. It panics if lower >= upper, since the
// compiler never builds such a range.
func NewCategory(name string, lower, upper float64) *Category {
	if !(lower < upper) {
		panic(fmt.Sprintf("domain: invalid category range %s..%s", FormatLimit(lower), FormatLimit(upper)))
	}
	return &Category{Name: name, Range: Range{Lower: lower, Upper: upper}}
}

func (c *Category) String() string {
	return c.Name + " " + c.Range.String()
}
