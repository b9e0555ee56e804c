package models

import "time"

// ResourceReport is the latest known resource snapshot for one facility.
// The unique index on facility_id makes the submit path a true single-row
// upsert: at most one current report exists per facility.
type ResourceReport struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	FacilityID           uint      `gorm:"not null;uniqueIndex" json:"facility_id"`
	ICUBedsAvailable     int       `gorm:"column:icu_beds_available;not null;default:0;check:ck_reports_icu_beds_non_negative,icu_beds_available >= 0" json:"icu_beds_available"`
	VentilatorsAvailable int       `gorm:"column:ventilators_available;not null;default:0;check:ck_reports_ventilators_non_negative,ventilators_available >= 0" json:"ventilators_available"`
	StaffOnDuty          int       `gorm:"column:staff_on_duty;not null;default:0;check:ck_reports_staff_non_negative,staff_on_duty >= 0" json:"staff_on_duty"`
	UpdatedAt            time.Time `gorm:"index" json:"updated_at"`
}
