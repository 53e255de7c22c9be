package domain

// SpeciesMatcher selects the records eligible for categorization.
type SpeciesMatcher interface {
	// Match reports whether the species field is accepted
	Match(species string) bool

	// String describes the matcher for logs and the check command
	String() string
}

// Config is the compiled categorization config. It is built once per run and
// read-only afterwards.
type Config struct {
	Matcher SpeciesMatcher
	// Categories are ascending and contiguous; the last one is unbounded.
	Categories []*Category
	// Source names where the config was read from.
	Source string
}
