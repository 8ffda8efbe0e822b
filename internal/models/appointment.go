package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ValidStatus reports whether s is one of the three appointment statuses.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Duration bounds in minutes.
const (
	MinDurationMinutes     = 5
	MaxDurationMinutes     = 480
	DefaultDurationMinutes = 30
)

// Appointment represents a scheduled clinic appointment.
// Participants are referenced by id when available; legacy records may carry
// only free-text names. At least one identifier of each participant must be
// present.
type Appointment struct {
	BaseModel
	PatientID    string `gorm:"size:36;index" json:"patientId,omitempty"`
	DoctorUserID string `gorm:"size:36;index:idx_doctor_start" json:"doctorUserId,omitempty"`

	// Legacy fields (kept for backward compatibility)
	PatientName string `gorm:"size:100" json:"patientName,omitempty"`
	DoctorName  string `gorm:"size:100" json:"doctorName,omitempty"`

	StartTime       time.Time         `gorm:"index:idx_doctor_start" json:"date"`
	DurationMinutes int               `gorm:"default:30" json:"durationMinutes"`
	Status          AppointmentStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	Reason          string            `gorm:"size:255" json:"reason,omitempty"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`

	// Soft delete
	IsDeleted bool `gorm:"default:false;index" json:"isDeleted"`
}

// EndTime is the exclusive end of the appointment interval.
func (a *Appointment) EndTime() time.Time {
	d := a.DurationMinutes
	if d <= 0 {
		d = DefaultDurationMinutes
	}
	return a.StartTime.Add(time.Duration(d) * time.Minute)
}

// Active reports whether the appointment participates in conflict detection:
// not soft-deleted and still scheduled.
func (a *Appointment) Active() bool {
	return !a.IsDeleted && a.Status == StatusScheduled
}
