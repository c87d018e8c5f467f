package interval

// Config carries construction-time parameters (spec §6) common to every
// engine. Engines embed Config and read it through the accessors below;
// they never touch the fields directly outside their own constructor so
// that new fields can be added here without breaking engine code.
type Config struct {
	allowReferenceDuplicates bool
	readOnly                 bool
	sorted                   bool
}

// Option configures a container at construction time, generalizing the
// teacher's positional boolean flags (treap.go's immutable/overwrite
// parameters) into the self-documenting functional-options idiom.
type Option func(*Config)

// WithAllowReferenceDuplicates permits Add to accept an interval value
// that is already present by reference. Without this option, dynamic
// engines reject such re-additions (spec §4.5 "Duplicates").
func WithAllowReferenceDuplicates() Option {
	return func(c *Config) { c.allowReferenceDuplicates = true }
}

// WithReadOnly promotes a dynamic engine to static: Add/Remove/Clear all
// fail with ErrReadOnly.
func WithReadOnly() Option {
	return func(c *Config) { c.readOnly = true }
}

// WithSortedOutput requests that FindOverlaps produce its results in
// sorted order. Every engine in this module already yields ascending
// low-endpoint order, so none of them reads this flag and it adds no
// cost.
func WithSortedOutput() Option {
	return func(c *Config) { c.sorted = true }
}

// NewConfig applies opts over the zero Config and returns the result. It
// is exported so that engine packages in other modules can build the
// contract's capability booleans without reimplementing the option
// pattern.
func NewConfig(opts ...Option) Config {
	var c Config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// AllowReferenceDuplicates reports whether re-adding an already-present
// reference is permitted.
func (c Config) AllowReferenceDuplicates() bool { return c.allowReferenceDuplicates }

// ReadOnly reports whether the collection rejects mutation.
func (c Config) ReadOnly() bool { return c.readOnly }

// Sorted reports whether FindOverlaps must produce sorted output.
func (c Config) Sorted() bool { return c.sorted }
