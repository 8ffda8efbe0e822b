package models

import (
	"time"
)

// Address holds a patient's postal address, embedded into the patients table.
type Address struct {
	Line1      string `gorm:"size:255" json:"line1,omitempty"`
	Line2      string `gorm:"size:255" json:"line2,omitempty"`
	City       string `gorm:"size:100" json:"city,omitempty"`
	State      string `gorm:"size:100" json:"state,omitempty"`
	PostalCode string `gorm:"size:20" json:"postalCode,omitempty"`
	Country    string `gorm:"size:100" json:"country,omitempty"`
}

// Patient represents a patient profile, optionally linked to a login account.
type Patient struct {
	BaseModel
	UserID      string     `gorm:"size:36;index" json:"userId,omitempty"`
	FirstName   string     `gorm:"size:100;index:idx_patient_name" json:"firstName"`
	LastName    string     `gorm:"size:100;index:idx_patient_name" json:"lastName"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Phone       string     `gorm:"size:30;index" json:"phone,omitempty"`
	Email       string     `gorm:"size:255;index" json:"email,omitempty"`
	Gender      string     `gorm:"size:10" json:"gender,omitempty"`
	MRN         string     `gorm:"size:50;index" json:"mrn,omitempty"`
	Address     Address    `gorm:"embedded;embeddedPrefix:address_" json:"address"`

	// Soft delete
	IsDeleted bool `gorm:"default:false;index" json:"isDeleted"`
}
