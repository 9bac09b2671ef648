package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Copay-Africa/copay-server-sub001/internal/models"
	"github.com/Copay-Africa/copay-server-sub001/internal/storage"
)

func TestFindByPhoneAbsentIsNilNil(t *testing.T) {
	dir := NewDirectoryService(storage.NewMemoryStore())

	record, err := dir.FindByPhone(context.Background(), "+250788999999")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestFindByPhoneMapsMemberRecord(t *testing.T) {
	store := storage.NewMemoryStore()
	dir := NewDirectoryService(store)

	hash, err := HashPIN("1234")
	require.NoError(t, err)

	_, err = store.CreateMember(&models.Member{
		Name:          "Chantal",
		Phone:         "+250788000003",
		HashedPIN:     hash,
		Status:        models.MemberStatusActive,
		CooperativeID: "COOP1",
	})
	require.NoError(t, err)

	record, err := dir.FindByPhone(context.Background(), "+250788000003")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Chantal", record.Name)
	assert.Equal(t, "active", record.Status)
	assert.Equal(t, "COOP1", record.CooperativeID)

	// The stored hash verifies against the original PIN and nothing else
	pins := NewPINService()
	assert.True(t, pins.Verify(record.HashedPIN, "1234"))
	assert.False(t, pins.Verify(record.HashedPIN, "4321"))
}

func TestDirectoryListsMapRecords(t *testing.T) {
	store := storage.NewMemoryStore()

	coop, err := store.CreateCooperative(&models.Cooperative{Name: "Umurava SACCO", Code: "UMUR"})
	require.NoError(t, err)
	_, err = store.CreatePaymentType(&models.PaymentType{
		CooperativeID: coop.CooperativeID,
		Name:          "Monthly Dues",
		Amount:        5000,
		Description:   "Regular monthly contribution",
	})
	require.NoError(t, err)

	coops, err := NewDirectoryService(store).ListActive(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, coops, 1)
	assert.Equal(t, "UMUR", coops[0].Code)

	types, err := NewPaymentTypeDirectoryService(store).ListActive(context.Background(), coop.CooperativeID, 9)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Monthly Dues", types[0].Name)
	assert.Equal(t, 5000.0, types[0].Amount)
}

func TestHashPINRejectsBadLength(t *testing.T) {
	_, err := HashPIN("123")
	assert.Error(t, err)
	_, err = HashPIN("12345")
	assert.Error(t, err)
}
