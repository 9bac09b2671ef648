package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Copay-Africa/copay-server-sub001/internal/models"
)

// DatabaseStore implements Store backed by PostgreSQL via GORM
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a new database-backed storage
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func wrapNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// Member operations

func (d *DatabaseStore) CreateMember(member *models.Member) (*models.Member, error) {
	if err := d.db.Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

func (d *DatabaseStore) GetMemberByID(memberID string) (*models.Member, error) {
	var member models.Member
	if err := d.db.Where("member_id = ?", memberID).First(&member).Error; err != nil {
		return nil, wrapNotFound(err, "member "+memberID)
	}
	return &member, nil
}

func (d *DatabaseStore) GetMemberByPhone(phone string) (*models.Member, error) {
	var member models.Member
	phone = models.NormalizePhone(phone)
	if err := d.db.Where("phone = ?", phone).First(&member).Error; err != nil {
		return nil, wrapNotFound(err, "member with phone "+phone)
	}
	return &member, nil
}

func (d *DatabaseStore) UpdateMember(member *models.Member) error {
	return d.db.Save(member).Error
}

// Cooperative operations

func (d *DatabaseStore) CreateCooperative(coop *models.Cooperative) (*models.Cooperative, error) {
	if err := d.db.Create(coop).Error; err != nil {
		return nil, err
	}
	return coop, nil
}

func (d *DatabaseStore) GetCooperativeByID(cooperativeID string) (*models.Cooperative, error) {
	var coop models.Cooperative
	if err := d.db.Where("cooperative_id = ?", cooperativeID).First(&coop).Error; err != nil {
		return nil, wrapNotFound(err, "cooperative "+cooperativeID)
	}
	return &coop, nil
}

func (d *DatabaseStore) GetActiveCooperatives(limit int) ([]*models.Cooperative, error) {
	var coops []*models.Cooperative
	query := d.db.Where("status = ?", models.CooperativeStatusActive).Order("cooperative_id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&coops).Error; err != nil {
		return nil, err
	}
	return coops, nil
}

// Payment type operations

func (d *DatabaseStore) CreatePaymentType(pt *models.PaymentType) (*models.PaymentType, error) {
	if err := d.db.Create(pt).Error; err != nil {
		return nil, err
	}
	return pt, nil
}

func (d *DatabaseStore) GetPaymentTypeByID(paymentTypeID string) (*models.PaymentType, error) {
	var pt models.PaymentType
	if err := d.db.Where("payment_type_id = ?", paymentTypeID).First(&pt).Error; err != nil {
		return nil, wrapNotFound(err, "payment type "+paymentTypeID)
	}
	return &pt, nil
}

func (d *DatabaseStore) GetActivePaymentTypes(cooperativeID string, limit int) ([]*models.PaymentType, error) {
	var types []*models.PaymentType
	query := d.db.
		Where("cooperative_id = ? AND status = ?", cooperativeID, models.PaymentTypeStatusActive).
		Order("payment_type_id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// Payment operations

func (d *DatabaseStore) CreatePayment(payment *models.Payment) (*models.Payment, error) {
	if err := d.db.Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (d *DatabaseStore) GetPaymentByID(paymentID string) (*models.Payment, error) {
	var payment models.Payment
	if err := d.db.Where("payment_id = ?", paymentID).First(&payment).Error; err != nil {
		return nil, wrapNotFound(err, "payment "+paymentID)
	}
	return &payment, nil
}

func (d *DatabaseStore) GetPaymentByIdempotencyKey(key string) (*models.Payment, error) {
	var payment models.Payment
	if err := d.db.Where("idempotency_key = ?", key).First(&payment).Error; err != nil {
		return nil, wrapNotFound(err, "payment with key "+key)
	}
	return &payment, nil
}

func (d *DatabaseStore) GetRecentPayments(memberID, cooperativeID string, limit int) ([]*models.Payment, error) {
	var payments []*models.Payment
	query := d.db.Where("member_id = ?", memberID).Order("created_at desc")
	if cooperativeID != "" {
		query = query.Where("cooperative_id = ?", cooperativeID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (d *DatabaseStore) UpdatePayment(payment *models.Payment) error {
	return d.db.Save(payment).Error
}
