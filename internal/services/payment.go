package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Copay-Africa/copay-server-sub001/internal/models"
	"github.com/Copay-Africa/copay-server-sub001/internal/storage"
	"github.com/Copay-Africa/copay-server-sub001/internal/ussd"
)

// PaymentService handles payment initiation and history.
// Implements ussd.PaymentInitiator and ussd.PaymentHistory.
type PaymentService struct {
	store storage.Store
}

// NewPaymentService creates a new payment service
func NewPaymentService(store storage.Store) *PaymentService {
	return &PaymentService{store: store}
}

// Initiate creates a payment for the member, applying the idempotency key so
// aggregator retries produce at most one state-changing effect: a repeated
// key returns the original payment's outcome without creating a second one.
func (p *PaymentService) Initiate(ctx context.Context, req ussd.InitiateRequest) (*ussd.PaymentResult, error) {
	if req.IdempotencyKey == "" {
		return nil, fmt.Errorf("payment: missing idempotency key")
	}

	existing, err := p.store.GetPaymentByIdempotencyKey(req.IdempotencyKey)
	if err == nil {
		log.Printf("Payment replay for key %s, returning %s", req.IdempotencyKey, existing.PaymentID)
		return paymentResult(existing), nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	pt, err := p.store.GetPaymentTypeByID(req.PaymentTypeID)
	if err != nil {
		return nil, fmt.Errorf("payment: %w", err)
	}

	payment := &models.Payment{
		IdempotencyKey: req.IdempotencyKey,
		MemberID:       req.MemberID,
		CooperativeID:  req.CooperativeID,
		PaymentTypeID:  pt.PaymentTypeID,
		PaymentType:    pt.Name,
		Amount:         pt.Amount,
		Channel:        req.Channel,
		Status:         models.PaymentStatusPending,
		Reference:      uuid.NewString(),
	}

	created, err := p.store.CreatePayment(payment)
	if err != nil {
		// Lost a race on the unique idempotency-key index; the winner's
		// record is the authoritative outcome
		if winner, lookupErr := p.store.GetPaymentByIdempotencyKey(req.IdempotencyKey); lookupErr == nil {
			return paymentResult(winner), nil
		}
		return nil, fmt.Errorf("payment: create: %w", err)
	}

	log.Printf("Payment %s initiated: member=%s type=%s amount=%.0f channel=%s",
		created.PaymentID, created.MemberID, created.PaymentTypeID, created.Amount, created.Channel)

	return paymentResult(created), nil
}

// Recent returns the member's latest payments, newest first
func (p *PaymentService) Recent(ctx context.Context, memberID, cooperativeID string, limit int) ([]ussd.PaymentRecord, error) {
	payments, err := p.store.GetRecentPayments(memberID, cooperativeID, limit)
	if err != nil {
		return nil, err
	}

	records := make([]ussd.PaymentRecord, 0, len(payments))
	for _, payment := range payments {
		records = append(records, ussd.PaymentRecord{
			TypeName: payment.PaymentType,
			Amount:   payment.Amount,
			Status:   payment.Status,
			Date:     payment.CreatedAt,
		})
	}
	return records, nil
}

// MarkSettled transitions a pending payment after the money-movement leg
// confirms. Called by back-office tooling, not by the USSD flow itself.
func (p *PaymentService) MarkSettled(paymentID string, succeeded bool) error {
	payment, err := p.store.GetPaymentByID(paymentID)
	if err != nil {
		return err
	}

	if succeeded {
		payment.Status = models.PaymentStatusCompleted
		now := time.Now()
		payment.PaidAt = &now
	} else {
		payment.Status = models.PaymentStatusFailed
	}
	return p.store.UpdatePayment(payment)
}

func paymentResult(payment *models.Payment) *ussd.PaymentResult {
	return &ussd.PaymentResult{
		ID:     payment.PaymentID,
		Amount: payment.Amount,
		Status: payment.Status,
	}
}
