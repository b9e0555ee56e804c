// Package services implements the domain operations behind the HTTP
// handlers. Services return sentinel errors; handlers translate them into
// status codes and client-facing messages.
package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Sentinels shared across services.
var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrFacilityNotFound = errors.New("facility not found")
)

// isDuplicateKey detects uniqueness-constraint violations so races between
// a pre-check and the insert still surface as a conflict, not a 500.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
