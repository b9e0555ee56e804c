package models

import "time"

// Facility is a healthcare site whose resource availability is tracked.
type Facility struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null;uniqueIndex" json:"name"`
	Country   *string   `gorm:"size:120;index" json:"country"`
	City      *string   `gorm:"size:120;index" json:"city"`
	CreatedAt time.Time `json:"created_at"`

	Users   []User           `gorm:"foreignKey:FacilityID" json:"-"`
	Reports []ResourceReport `gorm:"foreignKey:FacilityID" json:"-"`
}
