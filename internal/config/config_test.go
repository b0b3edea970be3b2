package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data", cfg.Artifacts.Dir)
	assert.Equal(t, "mass_real_notes.json", cfg.Artifacts.MassTopics)
	assert.Equal(t, []string{
		"enhanced_hot_topics.json",
		"enhanced_real_notes.json",
		"real_hot_topics.json",
		"notes.json",
		"hot_topics.json",
	}, cfg.Artifacts.LegacyTopics)
	assert.Empty(t, cfg.Generator.Script, "generator tier disabled by default")
	assert.Equal(t, 30*time.Second, cfg.Generator.TopicsTimeout)
	assert.Equal(t, 20*time.Second, cfg.Generator.StatsTimeout)
	assert.Equal(t, 4, cfg.Generator.MaxConcurrent)
	assert.Empty(t, cfg.Cache.RedisAddr, "cache disabled by default")
	assert.Empty(t, cfg.NATS.URL, "events disabled by default")
	assert.False(t, cfg.Refresh.Enabled)
	assert.Equal(t, "linear", cfg.Scoring.Strategy)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ARTIFACTS_LEGACY_TOPICS", "a.json,b.json")
	t.Setenv("GENERATOR_SCRIPT", "/opt/gen/main.py")
	t.Setenv("GENERATOR_TOPICS_TIMEOUT", "45s")
	t.Setenv("CACHE_REDIS_ADDR", "localhost:6379")
	t.Setenv("SCORING_STRATEGY", "exponential")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"a.json", "b.json"}, cfg.Artifacts.LegacyTopics)
	assert.Equal(t, "/opt/gen/main.py", cfg.Generator.Script)
	assert.Equal(t, 45*time.Second, cfg.Generator.TopicsTimeout)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "exponential", cfg.Scoring.Strategy)
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	t.Setenv("SCORING_STRATEGY", "quadratic")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")

	_, err := Load()

	assert.Error(t, err)
}

func TestMalformedDurationFallsBack(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}
