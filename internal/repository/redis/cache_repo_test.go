package redis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCacheRepo_NilClient(t *testing.T) {
	repo, err := NewCacheRepo(nil)
	assert.Error(t, err)
	assert.Nil(t, repo)
}

// Клиент на закрытый порт: команды должны вернуть сетевую ошибку, а не ErrNotFound
func TestCacheRepo_PropagatesConnectionErrors(t *testing.T) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:       []string{"127.0.0.1:1"},
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	repo, err := NewCacheRepo(client)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = repo.Get(ctx, "planner:user:1:ver")
	assert.Error(t, err)

	var dest map[string]int
	err = repo.GetJSON(ctx, "planner:week:1", &dest)
	assert.Error(t, err)

	assert.Error(t, repo.SetJSON(ctx, "k", func() {}, time.Minute), "функция не сериализуется в JSON")
}
