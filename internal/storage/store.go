package storage

import (
	"errors"
	"sync"

	"github.com/Copay-Africa/copay-server-sub001/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
// Both store implementations wrap it so callers can errors.Is against it.
var ErrNotFound = errors.New("record not found")

var (
	storeInstance Store
	storeOnce     sync.Once
)

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations
type Store interface {
	// Member operations
	CreateMember(member *models.Member) (*models.Member, error)
	GetMemberByID(memberID string) (*models.Member, error)
	GetMemberByPhone(phone string) (*models.Member, error)
	UpdateMember(member *models.Member) error

	// Cooperative operations
	CreateCooperative(coop *models.Cooperative) (*models.Cooperative, error)
	GetCooperativeByID(cooperativeID string) (*models.Cooperative, error)
	GetActiveCooperatives(limit int) ([]*models.Cooperative, error)

	// Payment type operations
	CreatePaymentType(pt *models.PaymentType) (*models.PaymentType, error)
	GetPaymentTypeByID(paymentTypeID string) (*models.PaymentType, error)
	GetActivePaymentTypes(cooperativeID string, limit int) ([]*models.PaymentType, error)

	// Payment operations
	CreatePayment(payment *models.Payment) (*models.Payment, error)
	GetPaymentByID(paymentID string) (*models.Payment, error)
	GetPaymentByIdempotencyKey(key string) (*models.Payment, error)
	GetRecentPayments(memberID, cooperativeID string, limit int) ([]*models.Payment, error)
	UpdatePayment(payment *models.Payment) error
}
