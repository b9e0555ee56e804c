package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hfrat/hfrat-backend/internal/models"
	"github.com/hfrat/hfrat-backend/internal/token"
)

var (
	ErrReporterUnlinked = errors.New("reporter is not linked to a facility")
	ErrWrongFacility    = errors.New("reporter can only submit for their facility")
	ErrReportNotFound   = errors.New("no report found")
)

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// Submit upserts the current resource snapshot for a facility. A reporter
// may only write to their own linked facility; admins may write to any. The
// write is a single atomic insert-or-update keyed on facility_id, so
// concurrent first submissions cannot leave two rows behind.
func (s *ReportService) Submit(ident token.Identity, facilityID uint, icuBeds, ventilators, staff int) (*models.ResourceReport, error) {
	if ident.Role == models.RoleReporter {
		if ident.FacilityID == nil {
			return nil, ErrReporterUnlinked
		}
		if *ident.FacilityID != facilityID {
			return nil, ErrWrongFacility
		}
	}

	var facility models.Facility
	if err := s.db.First(&facility, facilityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, fmt.Errorf("look up facility: %w", err)
	}

	report := models.ResourceReport{
		FacilityID:           facilityID,
		ICUBedsAvailable:     icuBeds,
		VentilatorsAvailable: ventilators,
		StaffOnDuty:          staff,
		UpdatedAt:            time.Now().UTC(),
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "facility_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"icu_beds_available", "ventilators_available", "staff_on_duty", "updated_at",
		}),
	}).Create(&report).Error
	if err != nil {
		return nil, fmt.Errorf("upsert report: %w", err)
	}

	// On the conflict path the insert candidate's id is not the surviving
	// row's; reload the current snapshot.
	var current models.ResourceReport
	if err := s.db.Where("facility_id = ?", facilityID).First(&current).Error; err != nil {
		return nil, fmt.Errorf("reload report: %w", err)
	}
	return &current, nil
}

// LatestForFacility returns the most recently updated report for a
// facility.
func (s *ReportService) LatestForFacility(facilityID uint) (*models.ResourceReport, error) {
	var report models.ResourceReport
	err := s.db.Where("facility_id = ?", facilityID).Order("updated_at DESC").First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("load report: %w", err)
	}
	return &report, nil
}
