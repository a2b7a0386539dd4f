package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
//
// Every value comes from the process environment at startup. A missing
// required parameter is a startup-time misconfiguration and fails LoadConfig;
// nothing here is re-read at runtime.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	// FirebaseWebAPIKey authorizes the Identity Toolkit REST calls used for
	// email/password sign-in and sign-up (the Admin SDK cannot verify
	// passwords). IdentityToolkitURL is overridable so tests and the Auth
	// emulator can point at a local endpoint.
	FirebaseWebAPIKey  string `mapstructure:"FIREBASE_WEB_API_KEY"`
	IdentityToolkitURL string `mapstructure:"IDENTITY_TOOLKIT_URL"`

	ImgBBAPIKey    string `mapstructure:"IMGBB_API_KEY"`
	ImgBBUploadURL string `mapstructure:"IMGBB_UPLOAD_URL"`

	SessionSecret   string `mapstructure:"SESSION_SECRET"`
	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`

	// ClientURL enables CORS for a separately hosted frontend. Optional:
	// when empty the server only serves its own pages.
	ClientURL string `mapstructure:"CLIENT_URL"`
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("IDENTITY_TOOLKIT_URL", "https://identitytoolkit.googleapis.com/v1")
	viper.SetDefault("IMGBB_UPLOAD_URL", "https://api.imgbb.com/1/upload")
	viper.SetDefault("SESSION_TTL_HOURS", 24)

	for _, key := range []string{
		"PORT",
		"GIN_MODE",
		"FIREBASE_PROJECT_ID",
		"GOOGLE_APPLICATION_CREDENTIALS",
		"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
		"FIREBASE_WEB_API_KEY",
		"IDENTITY_TOOLKIT_URL",
		"IMGBB_API_KEY",
		"IMGBB_UPLOAD_URL",
		"SESSION_SECRET",
		"SESSION_TTL_HOURS",
		"CLIENT_URL",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, errors.New("failed to bind env var " + key + ": " + err.Error())
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.GoogleApplicationCredentials == "" && cfg.FirebaseServiceAccountJSONBase64 == "" {
		return nil, errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is required")
	}
	if cfg.FirebaseWebAPIKey == "" {
		return nil, errors.New("FIREBASE_WEB_API_KEY is required")
	}
	if cfg.ImgBBAPIKey == "" {
		return nil, errors.New("IMGBB_API_KEY is required")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}
	if cfg.SessionTTLHours <= 0 {
		return nil, errors.New("SESSION_TTL_HOURS must be positive")
	}

	return &cfg, nil
}
