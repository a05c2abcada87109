package messaging

import "time"

// Config holds messaging API client configuration.
// BaseURL and APIToken identify the third-party gateway account used to
// deliver check-in notifications and access codes to phone numbers.
type Config struct {
	BaseURL        string        `env:"MESSAGING_BASE_URL,required"`
	APIToken       string        `env:"MESSAGING_API_TOKEN,required"`
	RequestTimeout time.Duration `env:"MESSAGING_REQUEST_TIMEOUT" envDefault:"25s"`
}
