package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageMissingSession(t *testing.T) {
	s := NewMemoryStateStorage()

	state, err := s.Load(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestStorageSaveAndLoad(t *testing.T) {
	s := NewMemoryStateStorage()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, NewUserState(42, "flow", "name")))

	state, err := s.Load(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, WorkflowID("flow"), state.WorkflowID)
	assert.Equal(t, "name", state.CurrentStep)
}

func TestStorageOverwrites(t *testing.T) {
	s := NewMemoryStateStorage()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, NewUserState(42, "flow", "name")))
	require.NoError(t, s.Save(ctx, NewUserState(42, "other", "city")))

	state, err := s.Load(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, WorkflowID("other"), state.WorkflowID)
}

func TestStorageDelete(t *testing.T) {
	s := NewMemoryStateStorage()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, NewUserState(42, "flow", "name")))
	require.NoError(t, s.Delete(ctx, 42))

	state, err := s.Load(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, state)

	// deleting a missing session is fine
	require.NoError(t, s.Delete(ctx, 42))
}

func TestStorageExpiry(t *testing.T) {
	s := NewMemoryStateStorage()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, NewUserState(42, "flow", "name")))

	s.now = func() time.Time { return time.Now().Add(SessionTTL + time.Second) }

	state, err := s.Load(ctx, 42)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Nil(t, state)

	// expiry is reported once; afterwards the session simply does not exist
	state, err = s.Load(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestStorageTouchExtendsSession(t *testing.T) {
	s := NewMemoryStateStorage()
	ctx := context.Background()

	state := NewUserState(42, "flow", "name")
	require.NoError(t, s.Save(ctx, state))

	// an answer refreshes UpdatedAt, pushing expiry out
	state.UpdatedAt = time.Now().Add(5 * time.Minute)
	require.NoError(t, s.Save(ctx, state))

	s.now = func() time.Time { return time.Now().Add(SessionTTL + time.Minute) }

	loaded, err := s.Load(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, loaded)
}
