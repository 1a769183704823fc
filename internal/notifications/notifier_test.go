package notifications

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_NilClientIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.PublishChange(context.Background(), ChangeEvent{Key: "clique-db"}))
	assert.NoError(t, n.StartChangeSubscriber(context.Background(), "clique-db", func(ChangeEvent) {}))
}

func TestChangeChannel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "clique:changed:clique-db", ChangeChannel("clique-db"))
}

func TestNotifier_DeliversChangeEvents(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan ChangeEvent, 4)
	require.NoError(t, n.StartChangeSubscriber(ctx, "clique-db", func(e ChangeEvent) {
		events <- e
	}))

	require.NoError(t, n.PublishChange(context.Background(), ChangeEvent{Key: "other", Origin: "x"}))
	require.NoError(t, n.PublishChange(context.Background(), ChangeEvent{Key: "clique-db", Origin: "writer-1", Version: 2}))

	select {
	case e := <-events:
		assert.Equal(t, "writer-1", e.Origin)
		assert.Equal(t, 2, e.Version)
	case <-time.After(time.Second):
		t.Fatal("change event not delivered")
	}
}

func TestNotifier_StopsOnCancelAndSurvivesPanics(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var received int32
	require.NoError(t, n.StartChangeSubscriber(ctx, "clique-db", func(ChangeEvent) {
		if atomic.AddInt32(&received, 1) == 1 {
			panic("boom")
		}
	}))

	require.NoError(t, rdb.Publish(context.Background(), ChangeChannel("clique-db"), "not json").Err())
	require.NoError(t, n.PublishChange(context.Background(), ChangeEvent{Key: "clique-db"}))
	require.NoError(t, n.PublishChange(context.Background(), ChangeEvent{Key: "clique-db"}))
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&received) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, n.PublishChange(context.Background(), ChangeEvent{Key: "clique-db"}))
	assert.Never(t, func() bool {
		return atomic.LoadInt32(&received) > 2
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestLocalFeed(t *testing.T) {
	feed := NewLocalFeed()
	ctx, cancel := context.WithCancel(context.Background())

	var got []string
	require.NoError(t, feed.StartChangeSubscriber(ctx, "clique-db", func(e ChangeEvent) {
		got = append(got, e.Origin)
	}))
	require.NoError(t, feed.StartChangeSubscriber(ctx, "clique-db", func(ChangeEvent) {
		panic("subscriber bug")
	}))

	require.NoError(t, feed.PublishChange(ctx, ChangeEvent{Key: "clique-db", Origin: "a"}))
	require.NoError(t, feed.PublishChange(ctx, ChangeEvent{Key: "other", Origin: "b"}))
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 2, feed.Subscribers("clique-db"))

	cancel()
	assert.Eventually(t, func() bool {
		return feed.Subscribers("clique-db") == 0
	}, time.Second, 5*time.Millisecond)
}
