package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/studyplan-api/internal/config"
)

func TestRedisOptions(t *testing.T) {
	t.Run("Single берёт первый адрес", func(t *testing.T) {
		opts, mode, err := redisOptions(config.RedisConfig{
			Addrs:           []string{"a:6379", "b:6379"},
			MinRetryBackoff: 8,
			MaxRetries:      2,
		})
		require.NoError(t, err)
		assert.Equal(t, "single", mode)
		assert.Equal(t, []string{"a:6379"}, opts.Addrs)
		assert.Equal(t, 8*time.Millisecond, opts.MinRetryBackoff)
		assert.Equal(t, 2, opts.MaxRetries)
	})

	t.Run("Addr вместо Addrs", func(t *testing.T) {
		opts, _, err := redisOptions(config.RedisConfig{Addr: "localhost:6379"})
		require.NoError(t, err)
		assert.Equal(t, []string{"localhost:6379"}, opts.Addrs)
	})

	t.Run("Sentinel", func(t *testing.T) {
		opts, _, err := redisOptions(config.RedisConfig{Mode: "sentinel", Addrs: []string{"s1:26379"}, MasterName: "mymaster"})
		require.NoError(t, err)
		assert.Equal(t, "mymaster", opts.MasterName)
	})

	tests := []struct {
		name string
		cfg  config.RedisConfig
	}{
		{"Нет адресов", config.RedisConfig{}},
		{"Sentinel без master_name", config.RedisConfig{Mode: "sentinel", Addr: "s1:26379"}},
		{"Cluster с одним адресом", config.RedisConfig{Mode: "cluster", Addr: "c1:7000"}},
		{"Неизвестный режим", config.RedisConfig{Mode: "ring", Addr: "x:1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := redisOptions(tt.cfg)
			assert.Error(t, err)
		})
	}
}
