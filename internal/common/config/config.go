// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	APIs     APIsConfig     `mapstructure:"apis"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Report   ReportConfig   `mapstructure:"report"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIsConfig holds settings for the external registries and the GenAI backend.
type APIsConfig struct {
	Entrez EntrezConfig `mapstructure:"entrez"`
	GenAI  GenAIConfig  `mapstructure:"genai"`
}

// EntrezConfig covers both PubMed and ClinVar, which share the NCBI
// E-utilities endpoint shape (esearch + efetch/esummary).
type EntrezConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"` // optional, raises NCBI rate limits
	Tool    string `mapstructure:"tool"`
	Email   string `mapstructure:"email"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type GenAIConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
}

// PipelineConfig holds the retrieval caps for one run.
type PipelineConfig struct {
	LiteratureMaxResults int `mapstructure:"literature_max_results"`
	VariantMaxResults    int `mapstructure:"variant_max_results"`
}

// ReportConfig holds settings for the file persistence collaborator.
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig configures the optional run-archive store.
type PostgresConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
