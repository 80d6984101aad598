package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestConversationStore_RoundTrip(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	s := NewConversationStore(client, 0)

	got, err := s.Get(ctx, "919876543210")
	require.NoError(t, err)
	assert.Nil(t, got)

	state := entity.NewConversationState(entity.StepAwaitingDOA)
	state.PendingData[entity.PendingDOB] = "1990-05-14"
	state.UpdatedAt = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Set(ctx, "919876543210", state))

	assert.True(t, mr.Exists("conversation:919876543210"))

	got, err = s.Get(ctx, "919876543210")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.StepAwaitingDOA, got.Step)
	assert.Equal(t, "1990-05-14", got.PendingData[entity.PendingDOB])
	assert.True(t, state.UpdatedAt.Equal(got.UpdatedAt))

	require.NoError(t, s.Delete(ctx, "919876543210"))
	assert.False(t, mr.Exists("conversation:919876543210"))
}

func TestConversationStore_TTL(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewConversationStore(client, time.Hour)

	require.NoError(t, s.Set(context.Background(), "p", entity.NewConversationState(entity.StepTemplateSent)))

	assert.Equal(t, time.Hour, mr.TTL("conversation:p"))
}

func TestConversationStore_CorruptValue(t *testing.T) {
	mr, client := newTestRedis(t)
	require.NoError(t, mr.Set("conversation:p", "{not json"))

	_, err := NewConversationStore(client, 0).Get(context.Background(), "p")

	assert.Error(t, err)
}

func TestConversationStore_ServerDown(t *testing.T) {
	mr, client := newTestRedis(t)
	mr.Close()

	_, err := NewConversationStore(client, 0).Get(context.Background(), "p")

	assert.Error(t, err)
}

func TestTriggerSet_UsesSharedSet(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	set := NewTriggerSet(client)
	key := entity.TriggerKey{PhoneNumber: "919876543210", CustomerID: 7}

	ok, err := set.Contains(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, set.Add(ctx, key))
	ok, err = set.Contains(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	members, err := mr.Members("profile_trigger:processed")
	require.NoError(t, err)
	assert.Equal(t, []string{"919876543210:7"}, members)
}
