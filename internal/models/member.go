package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Member status values
const (
	MemberStatusActive    = "active"
	MemberStatusPending   = "pending"
	MemberStatusSuspended = "suspended"
)

// Member represents a cooperative member who can transact over USSD
type Member struct {
	gorm.Model

	MemberID      string     `json:"member_id" gorm:"uniqueIndex"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone" gorm:"uniqueIndex"` // E.164 number the aggregator sends
	HashedPIN     string     `json:"-"`                        // bcrypt hash, never serialized
	Status        string     `json:"status" gorm:"default:pending"`
	CooperativeID string     `json:"cooperative_id"` // empty until the member joins one
	LastSeenAt    *time.Time `json:"last_seen_at"`
}

// BeforeCreate hook to auto-generate MemberID and normalize data
func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.MemberID == "" {
		m.MemberID = fmt.Sprintf("MBR%d%03d", time.Now().Unix(), time.Now().Nanosecond()%1000)
	}

	m.Phone = NormalizePhone(m.Phone)

	if m.Status == "" {
		m.Status = MemberStatusPending
	}

	return nil
}

// IsActive reports whether the member may start a USSD conversation
func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}

// NormalizePhone trims whitespace and ensures a leading +
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.ReplaceAll(phone, " ", "")
	if phone != "" && !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	return phone
}
