package ussd

import (
	"context"
	"time"
)

// Collaborator contracts consumed by step handlers. The directories and the
// payment service are owned elsewhere; handlers only see these interfaces.

// MemberRecord is the directory's view of a member
type MemberRecord struct {
	ID            string
	Name          string
	HashedPIN     string
	Status        string
	CooperativeID string // empty when the member has not joined a cooperative
}

// CooperativeRecord is one selectable cooperative
type CooperativeRecord struct {
	ID   string
	Name string
	Code string
}

// PaymentTypeRecord is one selectable contribution type
type PaymentTypeRecord struct {
	ID          string
	Name        string
	Amount      float64
	Description string
}

// InitiateRequest is the input to the payment-initiation service
type InitiateRequest struct {
	IdempotencyKey string
	MemberID       string
	CooperativeID  string
	PaymentTypeID  string
	Channel        string
}

// PaymentResult is what the payment-initiation service returns
type PaymentResult struct {
	ID     string
	Amount float64
	Status string // "completed", "pending" or a failure status
}

// PaymentRecord is one line of payment history
type PaymentRecord struct {
	TypeName string
	Amount   float64
	Status   string
	Date     time.Time
}

// MemberDirectory looks up members by phone number.
// FindByPhone returns (nil, nil) when no member exists for the phone.
type MemberDirectory interface {
	FindByPhone(ctx context.Context, phone string) (*MemberRecord, error)
}

// PINVerifier checks a plaintext PIN against a stored hash
type PINVerifier interface {
	Verify(hashedPIN, pin string) bool
}

// CooperativeDirectory lists cooperatives open for selection
type CooperativeDirectory interface {
	ListActive(ctx context.Context, limit int) ([]CooperativeRecord, error)
}

// PaymentTypeDirectory lists a cooperative's active contribution types
type PaymentTypeDirectory interface {
	ListActive(ctx context.Context, cooperativeID string, limit int) ([]PaymentTypeRecord, error)
}

// PaymentInitiator triggers the payment side effect. Implementations must
// apply the idempotency key so retries never double-charge.
type PaymentInitiator interface {
	Initiate(ctx context.Context, req InitiateRequest) (*PaymentResult, error)
}

// PaymentHistory reads a member's recent payments
type PaymentHistory interface {
	Recent(ctx context.Context, memberID, cooperativeID string, limit int) ([]PaymentRecord, error)
}
