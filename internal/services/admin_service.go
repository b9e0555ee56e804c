package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hfrat/hfrat-backend/internal/models"
)

var (
	ErrFacilityExists = errors.New("facility already exists")
	ErrFacilityInUse  = errors.New("facility still has linked users")
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *AdminService) ListFacilities() ([]models.Facility, error) {
	var facilities []models.Facility
	if err := s.db.Order("name ASC").Find(&facilities).Error; err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	return facilities, nil
}

func (s *AdminService) CreateFacility(name string, country, city *string) (*models.Facility, error) {
	var existing models.Facility
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, ErrFacilityExists
	}

	facility := models.Facility{Name: name, Country: country, City: city}
	if err := s.db.Create(&facility).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrFacilityExists
		}
		return nil, fmt.Errorf("create facility: %w", err)
	}
	return &facility, nil
}

// CreateUser provisions an account with a temporary password. A reporter
// must point at an existing facility; for any other role the facility link
// is forced null.
func (s *AdminService) CreateUser(email, password string, role models.Role, facilityID *uint) (*models.User, error) {
	if role == models.RoleReporter {
		if facilityID == nil {
			return nil, ErrFacilityRequired
		}
		var facility models.Facility
		if err := s.db.First(&facility, *facilityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrFacilityNotFound
			}
			return nil, fmt.Errorf("look up facility: %w", err)
		}
	} else {
		facilityID = nil
	}

	user := models.User{Email: email, Role: role, FacilityID: facilityID}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.db.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// DeleteFacility removes a facility and its reports in one transaction.
// Deletion is rejected while users are still linked to the facility, since
// unlinking them would break the reporter/facility invariant.
func (s *AdminService) DeleteFacility(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var facility models.Facility
		if err := tx.First(&facility, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFacilityNotFound
			}
			return fmt.Errorf("look up facility: %w", err)
		}

		var linked int64
		if err := tx.Model(&models.User{}).Where("facility_id = ?", id).Count(&linked).Error; err != nil {
			return fmt.Errorf("count linked users: %w", err)
		}
		if linked > 0 {
			return ErrFacilityInUse
		}

		if err := tx.Where("facility_id = ?", id).Delete(&models.ResourceReport{}).Error; err != nil {
			return fmt.Errorf("delete reports: %w", err)
		}
		return tx.Delete(&facility).Error
	})
}
