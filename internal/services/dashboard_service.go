package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hfrat/hfrat-backend/internal/dto"
	"github.com/hfrat/hfrat-backend/internal/models"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Summary lists every facility with its latest report, computed by grouping
// reports on facility and joining back on max(updated_at). Facilities
// without a report show null resource fields; critical is set when a report
// exists and no ICU beds are available.
func (s *DashboardService) Summary() ([]dto.DashboardEntry, error) {
	var facilities []models.Facility
	if err := s.db.Order("name ASC").Find(&facilities).Error; err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}

	latestSub := s.db.Model(&models.ResourceReport{}).
		Select("facility_id, MAX(updated_at) AS latest_ts").
		Group("facility_id")

	var latest []models.ResourceReport
	err := s.db.Model(&models.ResourceReport{}).
		Joins("JOIN (?) AS latest ON resource_reports.facility_id = latest.facility_id AND resource_reports.updated_at = latest.latest_ts", latestSub).
		Find(&latest).Error
	if err != nil {
		return nil, fmt.Errorf("load latest reports: %w", err)
	}

	byFacility := make(map[uint]models.ResourceReport, len(latest))
	for _, r := range latest {
		byFacility[r.FacilityID] = r
	}

	entries := make([]dto.DashboardEntry, 0, len(facilities))
	for _, fac := range facilities {
		entry := dto.DashboardEntry{
			FacilityID:   fac.ID,
			FacilityName: fac.Name,
			Country:      fac.Country,
			City:         fac.City,
			Location:     locationString(fac),
		}
		if report, ok := byFacility[fac.ID]; ok {
			icu, vents, staff := report.ICUBedsAvailable, report.VentilatorsAvailable, report.StaffOnDuty
			updated := report.UpdatedAt
			entry.ICUBedsAvailable = &icu
			entry.VentilatorsAvailable = &vents
			entry.StaffOnDuty = &staff
			entry.LastUpdate = &updated
			entry.Critical = icu == 0
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// History returns the reports for one facility whose updated_at falls
// within the trailing window, oldest first. With the latest-snapshot write
// model this holds at most the current row.
func (s *DashboardService) History(facilityID uint, days int) (*dto.HistoryResponse, error) {
	var facility models.Facility
	if err := s.db.First(&facility, facilityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, fmt.Errorf("look up facility: %w", err)
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	reports := make([]models.ResourceReport, 0)
	err := s.db.Where("facility_id = ? AND updated_at >= ?", facilityID, since).
		Order("updated_at ASC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	return &dto.HistoryResponse{
		Facility: dto.HistoryFacility{
			ID:      facility.ID,
			Name:    facility.Name,
			Country: facility.Country,
			City:    facility.City,
		},
		Days:    days,
		Reports: reports,
	}, nil
}

func locationString(fac models.Facility) *string {
	var parts []string
	if fac.City != nil && *fac.City != "" {
		parts = append(parts, *fac.City)
	}
	if fac.Country != nil && *fac.Country != "" {
		parts = append(parts, *fac.Country)
	}
	if len(parts) == 0 {
		return nil
	}
	loc := strings.Join(parts, ", ")
	return &loc
}
