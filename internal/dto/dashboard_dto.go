package dto

import (
	"time"

	"github.com/hfrat/hfrat-backend/internal/models"
)

type ReportResponse struct {
	Report models.ResourceReport `json:"report"`
}

// DashboardEntry is one facility row on the monitor dashboard. Resource
// fields are nil when the facility has no report yet.
type DashboardEntry struct {
	FacilityID           uint       `json:"facility_id"`
	FacilityName         string     `json:"facility_name"`
	Country              *string    `json:"country"`
	City                 *string    `json:"city"`
	Location             *string    `json:"location"`
	ICUBedsAvailable     *int       `json:"icu_beds_available"`
	VentilatorsAvailable *int       `json:"ventilators_available"`
	StaffOnDuty          *int       `json:"staff_on_duty"`
	LastUpdate           *time.Time `json:"last_update"`
	Critical             bool       `json:"critical"`
}

type DashboardResponse struct {
	Facilities []DashboardEntry `json:"facilities"`
}

type HistoryFacility struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Country *string `json:"country"`
	City    *string `json:"city"`
}

type HistoryResponse struct {
	Facility HistoryFacility         `json:"facility"`
	Days     int                     `json:"days"`
	Reports  []models.ResourceReport `json:"reports"`
}
