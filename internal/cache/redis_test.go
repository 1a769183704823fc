package cache

import (
	"context"
	"testing"

	"clique/internal/observability"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	opts, err := Options("redis://:secret@localhost:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	opts, err = Options(" localhost:6379 ")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	_, err = Options("")
	assert.Error(t, err)

	_, err = Options("redis://localhost:6379/not-a-db")
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestConnectUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client, err := Connect(context.Background(), addr)
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestMetricsHookCountsErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	before := testutil.ToFloat64(observability.RedisErrors.WithLabelValues("incr"))
	require.NoError(t, client.Set(ctx, "word", "hello", 0).Err())
	require.Error(t, client.Incr(ctx, "word").Err())
	assert.Equal(t, before+1, testutil.ToFloat64(observability.RedisErrors.WithLabelValues("incr")))

	missBefore := testutil.ToFloat64(observability.RedisErrors.WithLabelValues("get"))
	require.Error(t, client.Get(ctx, "missing").Err())
	assert.Equal(t, missBefore, testutil.ToFloat64(observability.RedisErrors.WithLabelValues("get")))
}
