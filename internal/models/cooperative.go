package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Cooperative status values
const (
	CooperativeStatusActive   = "active"
	CooperativeStatusInactive = "inactive"
)

// Cooperative represents a savings/payment group members belong to
type Cooperative struct {
	gorm.Model

	CooperativeID string `json:"cooperative_id" gorm:"uniqueIndex"`
	Name          string `json:"name"`
	Code          string `json:"code" gorm:"uniqueIndex"` // short code shown on menus and receipts
	Status        string `json:"status" gorm:"default:active"`
}

// BeforeCreate hook to auto-generate CooperativeID and normalize the code
func (c *Cooperative) BeforeCreate(tx *gorm.DB) error {
	if c.CooperativeID == "" {
		c.CooperativeID = fmt.Sprintf("COOP%d%03d", time.Now().Unix(), time.Now().Nanosecond()%1000)
	}

	c.Code = strings.ToUpper(strings.ReplaceAll(c.Code, " ", ""))

	if c.Status == "" {
		c.Status = CooperativeStatusActive
	}

	return nil
}
