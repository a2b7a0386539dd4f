package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FIREBASE_PROJECT_ID", "petshare-test")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/creds.json")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "")
	t.Setenv("FIREBASE_WEB_API_KEY", "web-api-key")
	t.Setenv("IMGBB_API_KEY", "imgbb-key")
	t.Setenv("SESSION_SECRET", "session-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("GIN_MODE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, "https://identitytoolkit.googleapis.com/v1", cfg.IdentityToolkitURL)
	assert.Equal(t, "https://api.imgbb.com/1/upload", cfg.ImgBBUploadURL)
	assert.Equal(t, 24, cfg.SessionTTLHours)
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9999")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("IDENTITY_TOOLKIT_URL", "http://localhost:9099/identitytoolkit.googleapis.com/v1")
	t.Setenv("SESSION_TTL_HOURS", "48")
	t.Setenv("CLIENT_URL", "https://petshare.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, "http://localhost:9099/identitytoolkit.googleapis.com/v1", cfg.IdentityToolkitURL)
	assert.Equal(t, 48, cfg.SessionTTLHours)
	assert.Equal(t, "https://petshare.example", cfg.ClientURL)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{name: "project id", unset: "FIREBASE_PROJECT_ID"},
		{name: "web api key", unset: "FIREBASE_WEB_API_KEY"},
		{name: "imgbb key", unset: "IMGBB_API_KEY"},
		{name: "session secret", unset: "SESSION_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.unset)
		})
	}
}

func TestLoadConfigRequiresSomeCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_APPLICATION_CREDENTIALS")
}
