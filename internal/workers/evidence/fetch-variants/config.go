// internal/workers/evidence/fetch-variants/config.go
package fetchvariants

import "time"

type Config struct {
	EntrezBaseURL string
	APIKey        string
	Tool          string
	Email         string
	Timeout       time.Duration
	MaxResults    int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    15 * time.Second,
		MaxResults: 200,
	}
}
