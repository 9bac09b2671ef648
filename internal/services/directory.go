package services

import (
	"context"
	"errors"

	"github.com/Copay-Africa/copay-server-sub001/internal/storage"
	"github.com/Copay-Africa/copay-server-sub001/internal/ussd"
)

// DirectoryService exposes member and cooperative records to the USSD
// engine. Implements ussd.MemberDirectory and ussd.CooperativeDirectory.
type DirectoryService struct {
	store storage.Store
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(store storage.Store) *DirectoryService {
	return &DirectoryService{store: store}
}

// FindByPhone looks up a member by E.164 phone number.
// Returns (nil, nil) when no member exists for the phone.
func (d *DirectoryService) FindByPhone(ctx context.Context, phone string) (*ussd.MemberRecord, error) {
	member, err := d.store.GetMemberByPhone(phone)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &ussd.MemberRecord{
		ID:            member.MemberID,
		Name:          member.Name,
		HashedPIN:     member.HashedPIN,
		Status:        member.Status,
		CooperativeID: member.CooperativeID,
	}, nil
}

// ListActive returns up to limit active cooperatives
func (d *DirectoryService) ListActive(ctx context.Context, limit int) ([]ussd.CooperativeRecord, error) {
	coops, err := d.store.GetActiveCooperatives(limit)
	if err != nil {
		return nil, err
	}

	records := make([]ussd.CooperativeRecord, 0, len(coops))
	for _, coop := range coops {
		records = append(records, ussd.CooperativeRecord{
			ID:   coop.CooperativeID,
			Name: coop.Name,
			Code: coop.Code,
		})
	}
	return records, nil
}

// PaymentTypeDirectoryService lists a cooperative's active contribution
// types. Separate from DirectoryService because both directory interfaces
// name their method ListActive with different signatures.
type PaymentTypeDirectoryService struct {
	store storage.Store
}

// NewPaymentTypeDirectoryService creates a new payment-type directory
func NewPaymentTypeDirectoryService(store storage.Store) *PaymentTypeDirectoryService {
	return &PaymentTypeDirectoryService{store: store}
}

// ListActive returns up to limit active payment types of a cooperative
func (d *PaymentTypeDirectoryService) ListActive(ctx context.Context, cooperativeID string, limit int) ([]ussd.PaymentTypeRecord, error) {
	types, err := d.store.GetActivePaymentTypes(cooperativeID, limit)
	if err != nil {
		return nil, err
	}

	records := make([]ussd.PaymentTypeRecord, 0, len(types))
	for _, pt := range types {
		records = append(records, ussd.PaymentTypeRecord{
			ID:          pt.PaymentTypeID,
			Name:        pt.Name,
			Amount:      pt.Amount,
			Description: pt.Description,
		})
	}
	return records, nil
}
