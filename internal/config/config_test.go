package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-brainchat/internal/services/ai"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"ANSWER_FUNCTION_URL": "http://localhost:54321/functions/v1/answer",
	})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, ai.ProviderFunction, cfg.AnswerProvider)
	assert.Equal(t, 60*time.Second, cfg.AnswerTimeout)
	assert.Equal(t, 2, cfg.AnswerMaxRetries)
	assert.Equal(t, 20, cfg.SubmitRateLimit)
	assert.Equal(t, 2*time.Hour, cfg.WorkspaceIdleTTL)
	assert.False(t, cfg.IsProduction())

	chatCfg := cfg.ChatConfig()
	assert.Equal(t, 180*time.Second, chatCfg.AnswerTimeout)
}

func TestLoadFromOpenAI(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"ANSWER_PROVIDER": "OpenAI",
		"OPENAI_API_KEY":  "sk-test",
		"OPENAI_BASE_URL": "https://example.test/v1",
		"ANSWER_TIMEOUT":  "15s",
	})
	require.NoError(t, err)

	aiCfg := cfg.AIConfig()
	assert.Equal(t, ai.ProviderOpenAI, aiCfg.Provider)
	assert.Equal(t, "sk-test", aiCfg.APIKey)
	assert.Equal(t, "https://example.test/v1", aiCfg.BaseURL)
	assert.Equal(t, 15*time.Second, aiCfg.Timeout)
}

func TestLoadFromRejectsIncompleteAnswerConfig(t *testing.T) {
	_, err := LoadFrom(map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANSWER_FUNCTION_URL")

	_, err = LoadFrom(map[string]string{"ANSWER_PROVIDER": "openai"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadFromProductionRequiresSecrets(t *testing.T) {
	_, err := LoadFrom(map[string]string{
		"ENV":                 "production",
		"ANSWER_FUNCTION_URL": "https://fn.example.test/answer",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
	assert.Contains(t, err.Error(), "ANSWER_FUNCTION_KEY")

	cfg, err := LoadFrom(map[string]string{
		"ENV":                 "production",
		"JWT_SECRET_KEY":      "s3cret",
		"ANSWER_FUNCTION_URL": "https://fn.example.test/answer",
		"ANSWER_FUNCTION_KEY": "anon",
	})
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoadFromBadDuration(t *testing.T) {
	_, err := LoadFrom(map[string]string{
		"ANSWER_FUNCTION_URL": "http://x",
		"ANSWER_TIMEOUT":      "soon",
	})
	require.Error(t, err)
}
