// internal/workers/synthesis/llm-summarize/config.go
package llmsummarize

import "time"

type Config struct {
	GenAIBaseURL string
	APIKey       string
	Model        string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}
