package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPIN hashes a plaintext PIN using bcrypt
func HashPIN(pin string) (string, error) {
	if len(pin) != 4 {
		return "", errors.New("pin must be exactly 4 digits")
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// PINService verifies member PINs against their stored bcrypt hashes.
// Implements ussd.PINVerifier.
type PINService struct{}

// NewPINService creates a new PIN verifier
func NewPINService() *PINService {
	return &PINService{}
}

// Verify compares a plaintext PIN with the stored hash
func (s *PINService) Verify(hashedPIN, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPIN), []byte(pin)) == nil
}
