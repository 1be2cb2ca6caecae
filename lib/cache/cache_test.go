package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBypass(t *testing.T) {
	t.Run("not configured check", func(t *testing.T) {
		ctx := context.Background()
		provider := NewRedis(ctx, Config{})
		require.Error(t, provider.Ping(ctx))
		require.NoError(t, provider.SetJSON(ctx, "k", "v", time.Minute))
		var out string
		found, err := provider.GetJSON(ctx, "k", &out)
		require.NoError(t, err)
		require.False(t, found)
		require.NoError(t, provider.Delete(ctx, "k"))
	})
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	t.Run("set get delete check", func(t *testing.T) {
		m := NewMemory()
		require.NoError(t, m.SetJSON(ctx, "auth:user:1", map[string]string{"role": "va"}, time.Minute))
		out := map[string]string{}
		found, err := m.GetJSON(ctx, "auth:user:1", &out)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "va", out["role"])
		require.NoError(t, m.Delete(ctx, "auth:user:1"))
		found, err = m.GetJSON(ctx, "auth:user:1", &out)
		require.NoError(t, err)
		require.False(t, found)
	})
	t.Run("ttl check", func(t *testing.T) {
		m := NewMemory()
		require.NoError(t, m.SetJSON(ctx, "k", 1, time.Millisecond))
		time.Sleep(5 * time.Millisecond)
		var out int
		found, err := m.GetJSON(ctx, "k", &out)
		require.NoError(t, err)
		require.False(t, found)
	})
}
