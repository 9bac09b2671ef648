package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Copay-Africa/copay-server-sub001/internal/models"
)

// MemoryStore holds all data in memory for local development and tests
type MemoryStore struct {
	members      map[string]*models.Member // keyed by MemberID
	cooperatives map[string]*models.Cooperative
	paymentTypes map[string]*models.PaymentType
	payments     map[string]*models.Payment

	// Mutexes for thread safety
	memberMu  sync.RWMutex
	coopMu    sync.RWMutex
	typeMu    sync.RWMutex
	paymentMu sync.RWMutex

	// Counters for ID generation
	memberCounter  int
	coopCounter    int
	typeCounter    int
	paymentCounter int
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		members:      make(map[string]*models.Member),
		cooperatives: make(map[string]*models.Cooperative),
		paymentTypes: make(map[string]*models.PaymentType),
		payments:     make(map[string]*models.Payment),
	}
}

// Member operations

func (m *MemoryStore) CreateMember(member *models.Member) (*models.Member, error) {
	m.memberMu.Lock()
	defer m.memberMu.Unlock()

	member.Phone = models.NormalizePhone(member.Phone)
	for _, existing := range m.members {
		if existing.Phone == member.Phone {
			return nil, fmt.Errorf("member with phone %s already exists", member.Phone)
		}
	}

	m.memberCounter++
	if member.MemberID == "" {
		member.MemberID = fmt.Sprintf("MBR%05d", m.memberCounter)
	}
	if member.Status == "" {
		member.Status = models.MemberStatusPending
	}
	member.CreatedAt = time.Now()
	member.UpdatedAt = time.Now()

	m.members[member.MemberID] = member
	return member, nil
}

func (m *MemoryStore) GetMemberByID(memberID string) (*models.Member, error) {
	m.memberMu.RLock()
	defer m.memberMu.RUnlock()

	member, exists := m.members[memberID]
	if !exists {
		return nil, fmt.Errorf("member %s: %w", memberID, ErrNotFound)
	}
	return member, nil
}

func (m *MemoryStore) GetMemberByPhone(phone string) (*models.Member, error) {
	m.memberMu.RLock()
	defer m.memberMu.RUnlock()

	phone = models.NormalizePhone(phone)
	for _, member := range m.members {
		if member.Phone == phone {
			return member, nil
		}
	}
	return nil, fmt.Errorf("member with phone %s: %w", phone, ErrNotFound)
}

func (m *MemoryStore) UpdateMember(member *models.Member) error {
	m.memberMu.Lock()
	defer m.memberMu.Unlock()

	if _, exists := m.members[member.MemberID]; !exists {
		return fmt.Errorf("member %s: %w", member.MemberID, ErrNotFound)
	}
	member.UpdatedAt = time.Now()
	m.members[member.MemberID] = member
	return nil
}

// Cooperative operations

func (m *MemoryStore) CreateCooperative(coop *models.Cooperative) (*models.Cooperative, error) {
	m.coopMu.Lock()
	defer m.coopMu.Unlock()

	m.coopCounter++
	if coop.CooperativeID == "" {
		coop.CooperativeID = fmt.Sprintf("COOP%05d", m.coopCounter)
	}
	if coop.Status == "" {
		coop.Status = models.CooperativeStatusActive
	}
	coop.CreatedAt = time.Now()
	coop.UpdatedAt = time.Now()

	m.cooperatives[coop.CooperativeID] = coop
	return coop, nil
}

func (m *MemoryStore) GetCooperativeByID(cooperativeID string) (*models.Cooperative, error) {
	m.coopMu.RLock()
	defer m.coopMu.RUnlock()

	coop, exists := m.cooperatives[cooperativeID]
	if !exists {
		return nil, fmt.Errorf("cooperative %s: %w", cooperativeID, ErrNotFound)
	}
	return coop, nil
}

func (m *MemoryStore) GetActiveCooperatives(limit int) ([]*models.Cooperative, error) {
	m.coopMu.RLock()
	defer m.coopMu.RUnlock()

	var coops []*models.Cooperative
	for _, coop := range m.cooperatives {
		if coop.Status == models.CooperativeStatusActive {
			coops = append(coops, coop)
		}
	}

	// Map iteration order is random; menus must be stable across requests
	sort.Slice(coops, func(i, j int) bool {
		return coops[i].CooperativeID < coops[j].CooperativeID
	})

	if limit > 0 && len(coops) > limit {
		coops = coops[:limit]
	}
	return coops, nil
}

// Payment type operations

func (m *MemoryStore) CreatePaymentType(pt *models.PaymentType) (*models.PaymentType, error) {
	m.typeMu.Lock()
	defer m.typeMu.Unlock()

	m.typeCounter++
	if pt.PaymentTypeID == "" {
		pt.PaymentTypeID = fmt.Sprintf("PT%05d", m.typeCounter)
	}
	if pt.Status == "" {
		pt.Status = models.PaymentTypeStatusActive
	}
	pt.CreatedAt = time.Now()
	pt.UpdatedAt = time.Now()

	m.paymentTypes[pt.PaymentTypeID] = pt
	return pt, nil
}

func (m *MemoryStore) GetPaymentTypeByID(paymentTypeID string) (*models.PaymentType, error) {
	m.typeMu.RLock()
	defer m.typeMu.RUnlock()

	pt, exists := m.paymentTypes[paymentTypeID]
	if !exists {
		return nil, fmt.Errorf("payment type %s: %w", paymentTypeID, ErrNotFound)
	}
	return pt, nil
}

func (m *MemoryStore) GetActivePaymentTypes(cooperativeID string, limit int) ([]*models.PaymentType, error) {
	m.typeMu.RLock()
	defer m.typeMu.RUnlock()

	var types []*models.PaymentType
	for _, pt := range m.paymentTypes {
		if pt.CooperativeID == cooperativeID && pt.Status == models.PaymentTypeStatusActive {
			types = append(types, pt)
		}
	}

	sort.Slice(types, func(i, j int) bool {
		return types[i].PaymentTypeID < types[j].PaymentTypeID
	})

	if limit > 0 && len(types) > limit {
		types = types[:limit]
	}
	return types, nil
}

// Payment operations

func (m *MemoryStore) CreatePayment(payment *models.Payment) (*models.Payment, error) {
	m.paymentMu.Lock()
	defer m.paymentMu.Unlock()

	// Same uniqueness guarantee the database gives via the unique index
	for _, existing := range m.payments {
		if existing.IdempotencyKey == payment.IdempotencyKey {
			return nil, fmt.Errorf("payment with idempotency key %s already exists", payment.IdempotencyKey)
		}
	}

	m.paymentCounter++
	if payment.PaymentID == "" {
		payment.PaymentID = fmt.Sprintf("PAY%05d", m.paymentCounter)
	}
	if payment.Channel == "" {
		payment.Channel = models.ChannelUSSD
	}
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()

	m.payments[payment.PaymentID] = payment
	return payment, nil
}

func (m *MemoryStore) GetPaymentByID(paymentID string) (*models.Payment, error) {
	m.paymentMu.RLock()
	defer m.paymentMu.RUnlock()

	payment, exists := m.payments[paymentID]
	if !exists {
		return nil, fmt.Errorf("payment %s: %w", paymentID, ErrNotFound)
	}
	return payment, nil
}

func (m *MemoryStore) GetPaymentByIdempotencyKey(key string) (*models.Payment, error) {
	m.paymentMu.RLock()
	defer m.paymentMu.RUnlock()

	for _, payment := range m.payments {
		if payment.IdempotencyKey == key {
			return payment, nil
		}
	}
	return nil, fmt.Errorf("payment with key %s: %w", key, ErrNotFound)
}

func (m *MemoryStore) GetRecentPayments(memberID, cooperativeID string, limit int) ([]*models.Payment, error) {
	m.paymentMu.RLock()
	defer m.paymentMu.RUnlock()

	var payments []*models.Payment
	for _, payment := range m.payments {
		if payment.MemberID != memberID {
			continue
		}
		if cooperativeID != "" && payment.CooperativeID != cooperativeID {
			continue
		}
		payments = append(payments, payment)
	}

	sort.Slice(payments, func(i, j int) bool {
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})

	if limit > 0 && len(payments) > limit {
		payments = payments[:limit]
	}
	return payments, nil
}

func (m *MemoryStore) UpdatePayment(payment *models.Payment) error {
	m.paymentMu.Lock()
	defer m.paymentMu.Unlock()

	if _, exists := m.payments[payment.PaymentID]; !exists {
		return fmt.Errorf("payment %s: %w", payment.PaymentID, ErrNotFound)
	}
	payment.UpdatedAt = time.Now()
	m.payments[payment.PaymentID] = payment
	return nil
}
