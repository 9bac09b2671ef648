package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Copay-Africa/copay-server-sub001/internal/models"
)

func TestMemoryStoreMemberLookup(t *testing.T) {
	store := NewMemoryStore()

	created, err := store.CreateMember(&models.Member{
		Name:   "Chantal",
		Phone:  "250788000003", // missing +, must be normalized
		Status: models.MemberStatusActive,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.MemberID)

	member, err := store.GetMemberByPhone("+250788000003")
	require.NoError(t, err)
	assert.Equal(t, created.MemberID, member.MemberID)

	_, err = store.GetMemberByPhone("+250788999999")
	assert.True(t, errors.Is(err, ErrNotFound))

	// Duplicate phone is rejected
	_, err = store.CreateMember(&models.Member{Name: "Other", Phone: "+250788000003"})
	assert.Error(t, err)
}

func TestMemoryStoreActiveCooperativesOrderedAndLimited(t *testing.T) {
	store := NewMemoryStore()

	for _, coop := range []*models.Cooperative{
		{Name: "B Co-op", Status: models.CooperativeStatusActive},
		{Name: "A Co-op", Status: models.CooperativeStatusActive},
		{Name: "Closed Co-op", Status: models.CooperativeStatusInactive},
	} {
		_, err := store.CreateCooperative(coop)
		require.NoError(t, err)
	}

	coops, err := store.GetActiveCooperatives(9)
	require.NoError(t, err)
	require.Len(t, coops, 2)
	// Stable ID order regardless of map iteration
	assert.Equal(t, "COOP00001", coops[0].CooperativeID)
	assert.Equal(t, "COOP00002", coops[1].CooperativeID)

	coops, err = store.GetActiveCooperatives(1)
	require.NoError(t, err)
	assert.Len(t, coops, 1)
}

func TestMemoryStorePaymentTypesFilterByCooperativeAndStatus(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.CreatePaymentType(&models.PaymentType{CooperativeID: "COOP1", Name: "Dues", Amount: 5000})
	require.NoError(t, err)
	_, err = store.CreatePaymentType(&models.PaymentType{CooperativeID: "COOP1", Name: "Old levy", Amount: 100, Status: models.PaymentTypeStatusInactive})
	require.NoError(t, err)
	_, err = store.CreatePaymentType(&models.PaymentType{CooperativeID: "COOP2", Name: "Inputs", Amount: 15000})
	require.NoError(t, err)

	types, err := store.GetActivePaymentTypes("COOP1", 9)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Dues", types[0].Name)
}

func TestMemoryStorePaymentIdempotencyKeyUnique(t *testing.T) {
	store := NewMemoryStore()

	first, err := store.CreatePayment(&models.Payment{
		IdempotencyKey: "key-1",
		MemberID:       "MBR1",
		Amount:         5000,
	})
	require.NoError(t, err)

	_, err = store.CreatePayment(&models.Payment{IdempotencyKey: "key-1", MemberID: "MBR1"})
	assert.Error(t, err)

	found, err := store.GetPaymentByIdempotencyKey("key-1")
	require.NoError(t, err)
	assert.Equal(t, first.PaymentID, found.PaymentID)
}

func TestMemoryStoreRecentPaymentsNewestFirst(t *testing.T) {
	store := NewMemoryStore()

	for i, key := range []string{"k1", "k2", "k3"} {
		_, err := store.CreatePayment(&models.Payment{
			IdempotencyKey: key,
			MemberID:       "MBR1",
			CooperativeID:  "COOP1",
			Amount:         float64(1000 * (i + 1)),
		})
		require.NoError(t, err)
	}
	_, err := store.CreatePayment(&models.Payment{IdempotencyKey: "k4", MemberID: "MBR2", CooperativeID: "COOP1"})
	require.NoError(t, err)

	payments, err := store.GetRecentPayments("MBR1", "COOP1", 2)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	// Only MBR1's payments, newest first
	assert.False(t, payments[0].CreatedAt.Before(payments[1].CreatedAt))
	for _, p := range payments {
		assert.Equal(t, "MBR1", p.MemberID)
	}
}
