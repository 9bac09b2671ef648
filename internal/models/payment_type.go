package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// PaymentType status values
const (
	PaymentTypeStatusActive   = "active"
	PaymentTypeStatusInactive = "inactive"
)

// PaymentType is a contribution a cooperative collects (monthly dues, shares, etc.)
type PaymentType struct {
	gorm.Model

	PaymentTypeID string  `json:"payment_type_id" gorm:"uniqueIndex"`
	CooperativeID string  `json:"cooperative_id" gorm:"index"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"` // fixed amount in RWF
	Description   string  `json:"description"`
	Status        string  `json:"status" gorm:"default:active"`
}

// BeforeCreate hook to auto-generate PaymentTypeID
func (p *PaymentType) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentTypeID == "" {
		p.PaymentTypeID = fmt.Sprintf("PT%d%03d", time.Now().Unix(), time.Now().Nanosecond()%1000)
	}

	if p.Status == "" {
		p.Status = PaymentTypeStatusActive
	}

	return nil
}
