package ussd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStoreRoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := NewSession("s1", "+250788000003")
	session.CurrentStep = StepMainMenu
	session.InputHistory = []string{"", "1"}
	require.NoError(t, store.Save(ctx, session, time.Minute))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, StepMainMenu, loaded.CurrentStep)
	assert.Equal(t, []string{"", "1"}, loaded.InputHistory)
}

func TestMemorySessionStoreLoadReturnsIndependentCopy(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := NewSession("s1", "+250788000003")
	require.NoError(t, store.Save(ctx, session, time.Minute))

	first, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	first.CurrentStep = StepAuthPIN
	first.Scratch.PendingPayment = &PaymentChoice{PaymentTypeID: "PT00001"}

	// Mutating a loaded session must not bleed into the stored record
	second, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepWelcome, second.CurrentStep)
	assert.Nil(t, second.Scratch.PendingPayment)
}

func TestMemorySessionStoreLazyExpiry(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := NewSession("s1", "+250788000003")
	require.NoError(t, store.Save(ctx, session, 10*time.Millisecond))

	time.Sleep(30 * time.Millisecond)

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, loaded, "expired session must read as absent")
}

func TestMemorySessionStoreDelete(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewSession("s1", "+250788000003"), time.Minute))
	require.NoError(t, store.Delete(ctx, "s1"))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Deleting an absent session is not an error
	require.NoError(t, store.Delete(ctx, "never-seen"))
}

func TestMemorySessionStoreAbsentIsNilNil(t *testing.T) {
	store := NewMemorySessionStore()

	loaded, err := store.Load(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
