package services

import (
	"fmt"
	"log"

	"github.com/Copay-Africa/copay-server-sub001/internal/models"
	"github.com/Copay-Africa/copay-server-sub001/internal/storage"
)

// SeedDemoData loads a small dataset so the USSD flow can be exercised
// locally without a provisioned directory. Gated by SEED_DEMO_DATA in main.
func SeedDemoData(store storage.Store) error {
	umurava, err := store.CreateCooperative(&models.Cooperative{
		Name:   "Umurava SACCO",
		Code:   "UMUR",
		Status: models.CooperativeStatusActive,
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	abahuza, err := store.CreateCooperative(&models.Cooperative{
		Name:   "Abahuza Farmers",
		Code:   "ABHZ",
		Status: models.CooperativeStatusActive,
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	for _, pt := range []*models.PaymentType{
		{CooperativeID: umurava.CooperativeID, Name: "Monthly Dues", Amount: 5000, Description: "Regular monthly contribution"},
		{CooperativeID: umurava.CooperativeID, Name: "Share Purchase", Amount: 10000, Description: "One cooperative share"},
		{CooperativeID: umurava.CooperativeID, Name: "Welfare Fund", Amount: 2000, Description: "Member welfare contribution"},
		{CooperativeID: abahuza.CooperativeID, Name: "Season Input Fund", Amount: 15000, Description: "Seed and fertilizer pool"},
	} {
		if _, err := store.CreatePaymentType(pt); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	hash, err := HashPIN("1234")
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	// One member already bound to a cooperative, one who still has to pick
	members := []*models.Member{
		{Name: "Chantal", Phone: "+250788000003", HashedPIN: hash, Status: models.MemberStatusActive, CooperativeID: umurava.CooperativeID},
		{Name: "Eric", Phone: "+250788000004", HashedPIN: hash, Status: models.MemberStatusActive},
		{Name: "Josiane", Phone: "+250788000005", HashedPIN: hash, Status: models.MemberStatusSuspended},
	}
	for _, member := range members {
		if _, err := store.CreateMember(member); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	log.Println("✅ Demo data seeded: 2 cooperatives, 4 payment types, 3 members (PIN 1234)")
	return nil
}
