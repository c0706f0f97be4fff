package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"TELEGRAM_TOKEN", "HOST", "PORT", "REQUEST_TIMEOUT", "ANALYSIS_TIMEOUT",
		"MAX_REQUEST_BODY_SIZE", "MEDIA_ROOT", "MEDIA_URL", "STORAGE_BACKEND",
		"AZURE_STORAGE_ACCOUNT", "AZURE_STORAGE_KEY", "AZURE_STORAGE_CONTAINER",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.ServerAddress())
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, 20*time.Second, cfg.AnalysisTimeout)
	require.Equal(t, int64(10*1024*1024), cfg.MaxRequestBodySize)
	require.Equal(t, "media", cfg.MediaRoot)
	require.Equal(t, "/media", cfg.MediaURL)
	require.Equal(t, StorageLocal, cfg.StorageBackend)
	require.Equal(t, "analyzed", cfg.AzureStorageContainer)
	require.False(t, cfg.BotEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("PORT", "9090")
	t.Setenv("ANALYSIS_TIMEOUT", "5s")
	t.Setenv("STORAGE_BACKEND", "AZURE")
	t.Setenv("AZURE_STORAGE_ACCOUNT", "acct")
	t.Setenv("AZURE_STORAGE_KEY", "a2V5")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.BotEnabled())
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, 5*time.Second, cfg.AnalysisTimeout)
	require.Equal(t, StorageAzure, cfg.StorageBackend)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:               "8080",
			RequestTimeout:     time.Second,
			AnalysisTimeout:    time.Second,
			MaxRequestBodySize: 1,
			MediaRoot:          "media",
			StorageBackend:     StorageLocal,
		}
	}
	require.NoError(t, base().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port not numeric", func(c *Config) { c.Port = "http" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"zero body size", func(c *Config) { c.MaxRequestBodySize = 0 }},
		{"zero timeout", func(c *Config) { c.AnalysisTimeout = 0 }},
		{"azure without key", func(c *Config) { c.StorageBackend = StorageAzure; c.AzureStorageAccount = "acct" }},
		{"unknown backend", func(c *Config) { c.StorageBackend = "s3" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
