package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "file", cfg.RecordSource)
	assert.Equal(t, -5, cfg.LocalUTCOffsetHours)
	assert.Equal(t, 120*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 24*time.Hour, cfg.SummaryCacheTTL)
	assert.Equal(t, 2, cfg.SpeechMaxSpeakers)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.EmailQueueEnabled)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("LOCAL_UTC_OFFSET_HOURS", "-4")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, -4, cfg.LocalUTCOffsetHours)
	assert.True(t, cfg.RedisEnabled())
}
