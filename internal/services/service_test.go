package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hfrat/hfrat-backend/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Facility{}, &models.User{}, &models.ResourceReport{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func createFacility(t *testing.T, db *gorm.DB, name string) *models.Facility {
	t.Helper()
	facility := models.Facility{Name: name}
	if err := db.Create(&facility).Error; err != nil {
		t.Fatalf("create facility %q: %v", name, err)
	}
	return &facility
}

func uintPtr(v uint) *uint { return &v }
