package database

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/hfrat/hfrat-backend/internal/config"
	"github.com/hfrat/hfrat-backend/internal/models"
)

// EnsureAdmin creates the default admin account when it does not exist, so
// a fresh deployment is never locked out.
func EnsureAdmin(db *gorm.DB, cfg *config.Config) error {
	var existing models.User
	err := db.Where("email = ?", cfg.DefaultAdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	admin := models.User{Email: cfg.DefaultAdminEmail, Role: models.RoleAdmin}
	if err := admin.SetPassword(cfg.DefaultAdminPassword); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	slog.Info("created default admin user", "email", cfg.DefaultAdminEmail)
	return nil
}

// SeedSampleData loads a handful of demo facilities. Skips anything that
// already exists, so it is safe to run on every startup.
func SeedSampleData(db *gorm.DB) error {
	strPtr := func(s string) *string { return &s }

	facilities := []models.Facility{
		{Name: "City General Hospital", Country: strPtr("USA"), City: strPtr("New York")},
		{Name: "St. Mary's Medical Center", Country: strPtr("USA"), City: strPtr("Los Angeles")},
		{Name: "Royal Victoria Hospital", Country: strPtr("UK"), City: strPtr("London")},
		{Name: "Toronto General Hospital", Country: strPtr("Canada"), City: strPtr("Toronto")},
		{Name: "Sydney Medical Center", Country: strPtr("Australia"), City: strPtr("Sydney")},
	}

	created := 0
	for _, fac := range facilities {
		var existing models.Facility
		if err := db.Where("name = ?", fac.Name).First(&existing).Error; err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("look up facility %q: %w", fac.Name, err)
		}

		if err := db.Create(&fac).Error; err != nil {
			return fmt.Errorf("create facility %q: %w", fac.Name, err)
		}
		created++
	}

	if created > 0 {
		slog.Info("seeded sample facilities", "created", created)
	}
	return nil
}
