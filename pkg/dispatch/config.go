package dispatch

import "time"

// Config holds the configuration for the dispatch engine
type Config struct {
	BatchSize       int           `env:"DISPATCH_BATCH_SIZE" envDefault:"5"`
	InterItemDelay  time.Duration `env:"DISPATCH_ITEM_DELAY" envDefault:"200ms"`
	InterBatchDelay time.Duration `env:"DISPATCH_BATCH_DELAY" envDefault:"2s"`
	MaxRetries      int           `env:"DISPATCH_MAX_RETRIES" envDefault:"2"`
	AttemptTimeout  time.Duration `env:"DISPATCH_ATTEMPT_TIMEOUT" envDefault:"30s"`
	Retention       time.Duration `env:"DISPATCH_RETENTION" envDefault:"24h"`
	SweepInterval   time.Duration `env:"DISPATCH_SWEEP_INTERVAL" envDefault:"10m"`
}

// NewServiceFromConfig creates a Service from the provided Config.
// Only non-zero values from the config are applied; explicit options take
// precedence over config values.
func NewServiceFromConfig(cfg Config, transports map[Channel]Transport, opts ...Option) (*Service, error) {
	configOpts := make([]Option, 0, 6)

	if cfg.BatchSize > 0 || cfg.InterItemDelay > 0 || cfg.InterBatchDelay > 0 {
		configOpts = append(configOpts, WithDefaultProfile(PacingProfile{
			BatchSize:       cfg.BatchSize,
			InterItemDelay:  cfg.InterItemDelay,
			InterBatchDelay: cfg.InterBatchDelay,
		}))
	}
	if cfg.MaxRetries > 0 {
		configOpts = append(configOpts, WithMaxRetries(cfg.MaxRetries))
	}
	if cfg.AttemptTimeout > 0 {
		configOpts = append(configOpts, WithAttemptTimeout(cfg.AttemptTimeout))
	}
	if cfg.Retention > 0 {
		configOpts = append(configOpts, WithRetention(cfg.Retention))
	}
	if cfg.SweepInterval > 0 {
		configOpts = append(configOpts, WithSweepInterval(cfg.SweepInterval))
	}

	configOpts = append(configOpts, opts...)

	return NewService(transports, configOpts...)
}
