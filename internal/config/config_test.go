package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SCRAPER_BASE_URL", "http://gateway.internal:8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "0 */15 * * * *", cfg.MonitorSchedule)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SCRAPER_BASE_URL", "http://gateway.internal:8080")
	t.Setenv("PORT", "9000")
	t.Setenv("DEBUG", "true")
	t.Setenv("FETCH_TIMEOUT", "10s")
	t.Setenv("STORAGE_BACKEND", "azure")
	t.Setenv("AZURE_STORAGE_ACCOUNT", "prodaccount")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "azure", cfg.StorageBackend)
	assert.Equal(t, "prodaccount", cfg.StorageAccount)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "Missing scraper base URL",
			env:  map[string]string{},
		},
		{
			name: "Unknown storage backend",
			env: map[string]string{
				"SCRAPER_BASE_URL": "http://gateway",
				"STORAGE_BACKEND":  "s3",
			},
		},
		{
			name: "Azure backend without storage account",
			env: map[string]string{
				"SCRAPER_BASE_URL": "http://gateway",
				"STORAGE_BACKEND":  "azure",
			},
		},
		{
			name: "Notification email without SMTP settings",
			env: map[string]string{
				"SCRAPER_BASE_URL":   "http://gateway",
				"NOTIFICATION_EMAIL": "ops@example.com",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
