package domain

// Record is a single measurement row read from a record source.
type Record struct {
	Species string
	Size    float64
	// RawSize is the size field as it appeared in the source, before coercion.
	RawSize string
	// SizeValid is false when RawSize was not a complete integer and Size
	// holds a best-effort value.
	SizeValid bool
	Source    string
	Line      int
}
