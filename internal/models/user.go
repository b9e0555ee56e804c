package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleReporter Role = "reporter"
	RoleMonitor  Role = "monitor"
)

// ParseRole maps a raw string onto a known role. The bool reports whether
// the value is one of the three valid roles.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleReporter, RoleMonitor:
		return Role(s), true
	}
	return "", false
}

// User is an account holding one of the three roles. FacilityID is set if
// and only if the role is reporter; the check constraint backs up the
// write-path validation.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:20;not null;default:'reporter';index;check:ck_users_facility_only_for_reporter,(role = 'reporter') OR (facility_id IS NULL)" json:"role"`
	FacilityID   *uint     `gorm:"index" json:"facility_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) SetPassword(raw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(raw)) == nil
}
