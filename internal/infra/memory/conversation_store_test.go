package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
)

func TestConversationStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewConversationStore()

	got, err := s.Get(ctx, "919876543210")
	require.NoError(t, err)
	assert.Nil(t, got)

	state := entity.NewConversationState(entity.StepAwaitingDOB)
	state.PendingData[entity.PendingName] = "Asha"
	require.NoError(t, s.Set(ctx, "919876543210", state))

	got, err = s.Get(ctx, "919876543210")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.StepAwaitingDOB, got.Step)
	assert.Equal(t, "Asha", got.PendingData[entity.PendingName])

	require.NoError(t, s.Delete(ctx, "919876543210"))
	got, _ = s.Get(ctx, "919876543210")
	assert.Nil(t, got)
	assert.Equal(t, 0, s.Len())
}

func TestConversationStore_DoesNotShareMaps(t *testing.T) {
	ctx := context.Background()
	s := NewConversationStore()

	state := entity.NewConversationState(entity.StepAwaitingDOA)
	state.PendingData[entity.PendingDOB] = "1990-05-14"
	require.NoError(t, s.Set(ctx, "p", state))

	state.PendingData[entity.PendingDOB] = "changed"
	got, _ := s.Get(ctx, "p")
	assert.Equal(t, "1990-05-14", got.PendingData[entity.PendingDOB])

	got.PendingData[entity.PendingDOB] = "changed again"
	again, _ := s.Get(ctx, "p")
	assert.Equal(t, "1990-05-14", again.PendingData[entity.PendingDOB])
}

func TestTriggerSet(t *testing.T) {
	ctx := context.Background()
	set := NewTriggerSet()
	key := entity.TriggerKey{PhoneNumber: "919876543210", CustomerID: 3}

	ok, err := set.Contains(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, set.Add(ctx, key))
	ok, _ = set.Contains(ctx, key)
	assert.True(t, ok)

	ok, _ = set.Contains(ctx, entity.TriggerKey{PhoneNumber: "919876543210", CustomerID: 4})
	assert.False(t, ok)
}
