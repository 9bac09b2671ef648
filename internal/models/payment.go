package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Payment status values
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment channels
const (
	ChannelUSSD = "USSD"
)

// Payment is a single contribution initiated by a member
type Payment struct {
	gorm.Model

	PaymentID      string     `json:"payment_id" gorm:"uniqueIndex"`
	IdempotencyKey string     `json:"idempotency_key" gorm:"uniqueIndex"` // dedupes aggregator retries
	MemberID       string     `json:"member_id" gorm:"index"`
	CooperativeID  string     `json:"cooperative_id" gorm:"index"`
	PaymentTypeID  string     `json:"payment_type_id"`
	PaymentType    string     `json:"payment_type"` // denormalized name for history screens
	Amount         float64    `json:"amount"`
	Channel        string     `json:"channel"`
	Status         string     `json:"status" gorm:"default:pending"`
	Reference      string     `json:"reference"`
	PaidAt         *time.Time `json:"paid_at"`
}

// BeforeCreate hook to auto-generate PaymentID
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == "" {
		p.PaymentID = fmt.Sprintf("PAY%d%03d", time.Now().Unix(), time.Now().Nanosecond()%1000)
	}

	if p.Channel == "" {
		p.Channel = ChannelUSSD
	}
	if p.Status == "" {
		p.Status = PaymentStatusPending
	}

	return nil
}
