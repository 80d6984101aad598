package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HTTP_PORT", "CORS_ALLOWED_ORIGINS", "TRIGGER_ENABLED", "TRIGGER_INTERVAL", "TRIGGER_TEMPLATE_NAME",
		"TRIGGER_TEMPLATE_PARAMS", "STATE_BACKEND", "REDIS_URL", "RABBITMQ_URL", "FLOW_MAX_INVALID_ATTEMPTS",
		"DEFAULT_COUNTRY_CODE", "TRIGGER_TEMPLATE_LANGUAGE", "LOG_LEVEL", "LOG_FILE", "OPERATOR_EMAIL",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("DATABASE_URL", "postgres://localhost/profiles?sslmode=disable")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load("testdata-missing.env")

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.TriggerEnabled)
	assert.Equal(t, 10*time.Second, cfg.TriggerInterval)
	assert.Equal(t, "profile_update", cfg.TriggerTemplateName)
	assert.Equal(t, "en_US", cfg.TriggerTemplateLanguage)
	assert.Equal(t, StateBackendMemory, cfg.StateBackend)
	assert.Equal(t, "91", cfg.DefaultCountryCode)
	assert.Equal(t, 0, cfg.FlowMaxInvalidAttempts)
	assert.Equal(t, 587, cfg.MailPort)
	assert.Empty(t, cfg.TriggerTemplateParams)
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TRIGGER_ENABLED", "false")
	t.Setenv("TRIGGER_INTERVAL", "1m")
	t.Setenv("TRIGGER_TEMPLATE_PARAMS", "Ligue, profile ")
	t.Setenv("STATE_BACKEND", "REDIS")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("FLOW_MAX_INVALID_ATTEMPTS", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.com,https://b.com")

	cfg, err := Load("testdata-missing.env")

	require.NoError(t, err)
	assert.False(t, cfg.TriggerEnabled)
	assert.Equal(t, time.Minute, cfg.TriggerInterval)
	assert.Equal(t, []string{"Ligue", "profile"}, cfg.TriggerTemplateParams)
	assert.Equal(t, StateBackendRedis, cfg.StateBackend)
	assert.Equal(t, 3, cfg.FlowMaxInvalidAttempts)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"intervalo ilegível", map[string]string{"TRIGGER_INTERVAL": "soon"}},
		{"intervalo negativo", map[string]string{"TRIGGER_INTERVAL": "-5s"}},
		{"backend desconhecido", map[string]string{"STATE_BACKEND": "etcd"}},
		{"redis sem url", map[string]string{"STATE_BACKEND": "redis"}},
		{"tentativas negativas", map[string]string{"FLOW_MAX_INVALID_ATTEMPTS": "-1"}},
		{"sem banco", map[string]string{"DATABASE_URL": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("testdata-missing.env")

			assert.Error(t, err)
		})
	}
}
