package workflow

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardRunsHandler(t *testing.T) {
	g := NewGuard(discardLogger())

	ran := false
	err := g.Do(42, func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestGuardRejectsConcurrentEvent(t *testing.T) {
	g := NewGuard(discardLogger())

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- g.Do(42, func() error {
			close(entered)
			<-release
			return nil
		})
	}()

	<-entered
	err := g.Do(42, func() error {
		t.Error("second handler must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)

	// slot is free again
	require.NoError(t, g.Do(42, func() error { return nil }))
}

func TestGuardIsPerChat(t *testing.T) {
	g := NewGuard(discardLogger())

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- g.Do(1, func() error {
			close(entered)
			<-release
			return nil
		})
	}()

	<-entered
	require.NoError(t, g.Do(2, func() error { return nil }))

	close(release)
	require.NoError(t, <-done)
}

func TestGuardPropagatesHandlerError(t *testing.T) {
	g := NewGuard(discardLogger())

	wantErr := errors.New("boom")
	err := g.Do(42, func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)
}

func TestGuardRecoversPanicAndReleases(t *testing.T) {
	g := NewGuard(discardLogger())

	err := g.Do(42, func() error { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	// the panic must not leave the chat stuck busy
	require.NoError(t, g.Do(42, func() error { return nil }))
}

func TestGuardUnderContention(t *testing.T) {
	g := NewGuard(discardLogger())

	var mu sync.Mutex
	ran, busy := 0, 0

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := g.Do(42, func() error { return nil })
			mu.Lock()
			defer mu.Unlock()
			if errors.Is(err, ErrBusy) {
				busy++
			} else {
				ran++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, ran+busy)
	assert.GreaterOrEqual(t, ran, 1)
}
