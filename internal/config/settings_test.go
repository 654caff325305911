package config

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := loadSettings(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "local", s.Environment)
	assert.Equal(t, "marketroast", s.ServiceName)
	assert.Equal(t, "0.01", s.Version)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "json", s.LogFormat)
	assert.Empty(t, s.PushgatewayURL)
	assert.False(t, s.IsProduction())
}

func TestLoadSettings_Overrides(t *testing.T) {
	s, err := loadSettings(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENVIRONMENT":             "production",
		"SERVICE_NAME":            "roaster",
		"LOG_LEVEL":               "debug",
		"LOG_FORMAT":              "console",
		"METRICS_PUSHGATEWAY_URL": "http://pushgateway:9091",
	}))
	require.NoError(t, err)

	assert.Equal(t, "roaster", s.ServiceName)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "console", s.LogFormat)
	assert.Equal(t, "http://pushgateway:9091", s.PushgatewayURL)
	assert.True(t, s.IsProduction())
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown log format", map[string]string{"LOG_FORMAT": "xml"}, "LOG_FORMAT"},
		{"unknown log level", map[string]string{"LOG_LEVEL": "trace"}, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadSettings(context.Background(), envconfig.MapLookuper(tt.env))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSettings_EffectiveLogFormat(t *testing.T) {
	tests := []struct {
		environment string
		format      string
		expected    string
	}{
		{"local", "console", "console"},
		{"local", "json", "json"},
		{"production", "console", "json"},
		{"PROD", "console", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.environment+"/"+tt.format, func(t *testing.T) {
			s := &Settings{Environment: tt.environment, LogFormat: tt.format}
			assert.Equal(t, tt.expected, s.EffectiveLogFormat())
		})
	}
}
