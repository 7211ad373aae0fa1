package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config represents the application configuration structure
type Config struct {
	Environment   string `default:"dev" split_words:"true"`
	ListenAddress string `default:":3000" split_words:"true"`
	BaseAddress   string `default:"http://localhost:3000" split_words:"true"`
	AllowedOrigin string `default:"*" split_words:"true"`

	IdamAPIURL       string `default:"http://localhost:8082" envconfig:"idam_api_url"`
	IdamWebURL       string `default:"http://localhost:8082" envconfig:"idam_web_url"`
	IdamClientID     string `default:"sscs_cor" split_words:"true"`
	IdamClientSecret string `split_words:"true"`

	CaseAPIURL       string `default:"http://localhost:8090" envconfig:"case_api_url"`
	TribunalsAPIURL  string `default:"http://localhost:8091" envconfig:"tribunals_api_url"`
	ServiceAuthToken string `split_words:"true"`

	SessionStorageDriver string        `default:"inmem" split_words:"true"`
	PostgresDSN          string        `split_words:"true"`
	SessionLifetime      time.Duration `default:"1h" split_words:"true"`

	// RequestTimeout bounds every outbound call to IDAM, the case API and the tribunals API
	RequestTimeout time.Duration `default:"10s" split_words:"true"`

	NotificationTokenSecret string `split_words:"true"`

	FeatureManageYourAppeal bool `default:"true" split_words:"true"`
	FeatureWelsh            bool `default:"false" split_words:"true"`
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	// Load a new configuration structure using environment variables
	config := new(Config)
	if err := envconfig.Process("mya", config); err != nil {
		return nil, err
	}
	return config, nil
}

// IsEnvProduction returns whether the application runs in production mode
func (config *Config) IsEnvProduction() bool {
	return config.Environment == "prod" || config.Environment == "production"
}

// IsSecure returns whether the application is served via HTTPS and session cookies should carry the Secure attribute
func (config *Config) IsSecure() bool {
	return strings.HasPrefix(config.BaseAddress, "https://")
}
