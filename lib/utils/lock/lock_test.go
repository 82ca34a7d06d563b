package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ok, err := WithDelay(ctx, "key", time.Second, func() error {
			close(started)
			<-release
			return nil
		})
		require.True(t, ok)
		require.NoError(t, err)
	}()
	<-started

	ok, err := WithDelay(ctx, "key", 100*time.Millisecond, func() error {
		t.Fatal("не должно выполняться")
		return nil
	})
	require.False(t, ok)
	require.NoError(t, err)

	ok, err = WithDelay(ctx, "other", 100*time.Millisecond, func() error { return nil })
	require.True(t, ok)
	require.NoError(t, err)

	close(release)
	<-done
	ok, err = WithDelay(ctx, "key", 100*time.Millisecond, func() error { return nil })
	require.True(t, ok)
	require.NoError(t, err)
}

func TestWithDelayContextDone(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_, _ = WithDelay(context.Background(), "busy", time.Second, func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := WithDelay(ctx, "busy", time.Second, func() error { return nil })
	require.False(t, ok)
	require.ErrorIs(t, err, context.Canceled)

	// свободный ключ захватывается и при завершенном контексте
	ok, err = WithDelay(ctx, "free", time.Second, func() error { return nil })
	require.True(t, ok)
	require.NoError(t, err)
}
