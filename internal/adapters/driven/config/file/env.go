package file

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/icebreaker-labs/icebreaker-cli/internal/logger"
)

// Credentials holds API keys sourced from the environment. Keys are kept
// out of the config file on purpose.
type Credentials struct {
	// PerplexityKey authenticates completion requests.
	PerplexityKey string `env:"PPLX_API_KEY"`

	// OpenAIKey authenticates embedding requests.
	OpenAIKey string `env:"OPENAI_API_KEY"`

	// ProxycurlKey authenticates LinkedIn profile fetches. Optional.
	ProxycurlKey string `env:"PROXYCURL_API_KEY"`
}

// LoadCredentials reads API keys from the environment, first merging a
// .env file from the working directory if one exists.
func LoadCredentials() (*Credentials, error) {
	if err := godotenv.Load(); err != nil {
		// A missing .env file is the normal case.
		logger.Debug("config: no .env file loaded: %v", err)
	}

	creds := &Credentials{}
	if err := env.Parse(creds); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return creds, nil
}
