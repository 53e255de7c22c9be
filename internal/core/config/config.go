package config

// AppConfig represents the top-level settings file.
type AppConfig struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Input      InputConfig      `yaml:"input"`
	Categories CategoriesConfig `yaml:"categories"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// InputConfig describes the record source.
type InputConfig struct {
	Encoding      string `yaml:"encoding"` // WHATWG label, e.g. windows-31j, utf-8
	SpeciesColumn int    `yaml:"species_column"`
	SizeColumn    int    `yaml:"size_column"`
	StrictSizes   bool   `yaml:"strict_sizes"` // drop records whose size is not an integer
}

// CategoriesConfig points at the categorization DSL.
type CategoriesConfig struct {
	Config string `yaml:"config"` // empty = embedded default
}

// MetricsConfig controls the run metrics export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // empty = disabled
}
