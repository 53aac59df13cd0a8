package db

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T, prefix string) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := InitializeRedisClient(RedisOptions{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	s := NewRedisStorage(client, prefix, zap.NewNop())
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStorages(t *testing.T) {
	redisStore, _ := newTestRedis(t, "")
	storages := map[string]KV{
		"memory": NewMemoryStorage(),
		"redis":  redisStore,
	}

	for name, kv := range storages {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get("teachers")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set("teachers", "[]"))
			v, ok, err := kv.Get("teachers")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "[]", v)

			require.NoError(t, kv.Set("teachers", `[{"id":"1"}]`))
			v, _, _ = kv.Get("teachers")
			assert.Equal(t, `[{"id":"1"}]`, v)

			require.NoError(t, kv.Set("adminAuth", "true"))
			require.NoError(t, kv.Del("teachers", "adminAuth", "missing"))
			_, ok, _ = kv.Get("teachers")
			assert.False(t, ok)
			_, ok, _ = kv.Get("adminAuth")
			assert.False(t, ok)

			require.NoError(t, kv.Del())
		})
	}
}

func TestRedisStorage_Prefix(t *testing.T) {
	s, mr := newTestRedis(t, "edoura:")

	require.NoError(t, s.Set("grades", "[]"))
	got, err := mr.Get("edoura:grades")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
	assert.False(t, mr.Exists("grades"))
}

func TestRedisStorage_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := InitializeRedisClient(RedisOptions{Addr: addr}, zap.NewNop())
	assert.Error(t, err)
}

func TestRedisStorage_ServerError(t *testing.T) {
	s, mr := newTestRedis(t, "")
	mr.SetError("LOADING")

	_, _, err := s.Get("teachers")
	assert.Error(t, err)
	assert.Error(t, s.Set("teachers", "[]"))
}

func TestMemoryStorage_Closed(t *testing.T) {
	m := NewMemoryStorage()
	require.NoError(t, m.Close())

	_, _, err := m.Get("k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Set("k", "v"), ErrClosed)
	assert.ErrorIs(t, m.Del("k"), ErrClosed)
}
