package zplane

// DefaultTolerance is the picking distance used to match a pointer location
// to an existing point.
const DefaultTolerance = 0.05

// Config holds editor settings.
type Config struct {
	// Tolerance is the exclusive Euclidean picking distance.
	Tolerance float64
	// HistoryLimit caps the undo stack; <= 0 means unbounded.
	HistoryLimit int
	// Gain scales the derived numerator.
	Gain float64
	// Consumers receive coefficients after every edit.
	Consumers []Consumer
}

// EditorOption mutates a Config.
type EditorOption func(*Config)

// DefaultConfig returns the editor defaults: 0.05 tolerance, unbounded
// history, unity gain and no consumers.
func DefaultConfig() Config {
	return Config{
		Tolerance: DefaultTolerance,
		Gain:      1,
	}
}

// WithTolerance sets the picking tolerance.
func WithTolerance(tol float64) EditorOption {
	return func(cfg *Config) {
		if tol > 0 {
			cfg.Tolerance = tol
		}
	}
}

// WithHistoryLimit caps the number of undo entries.
func WithHistoryLimit(limit int) EditorOption {
	return func(cfg *Config) {
		cfg.HistoryLimit = limit
	}
}

// WithGain sets the numerator gain.
func WithGain(gain float64) EditorOption {
	return func(cfg *Config) {
		if validPoint(complex(gain, 0)) {
			cfg.Gain = gain
		}
	}
}

// WithConsumers registers coefficient consumers.
func WithConsumers(consumers ...Consumer) EditorOption {
	return func(cfg *Config) {
		for _, c := range consumers {
			if c != nil {
				cfg.Consumers = append(cfg.Consumers, c)
			}
		}
	}
}

// ApplyEditorOptions applies zero or more options to the default config.
func ApplyEditorOptions(opts ...EditorOption) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
