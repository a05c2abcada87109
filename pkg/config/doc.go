// Package config loads environment-based configuration structs for the
// notifier service.
//
// Load parses `env`-tagged struct fields (github.com/caarlos0/env) after
// loading a .env file if one exists (github.com/joho/godotenv). Each unique
// config type is parsed once per process and cached, so packages can load
// their own Config independently without re-reading the environment.
//
// # Usage
//
//	type Config struct {
//	    BatchSize      int           `env:"DISPATCH_BATCH_SIZE" envDefault:"5"`
//	    AttemptTimeout time.Duration `env:"DISPATCH_ATTEMPT_TIMEOUT" envDefault:"30s"`
//	    APIToken       string        `env:"MESSAGING_API_TOKEN,required"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
//
// MustLoad panics on failure and suits configuration the process cannot
// start without.
package config
