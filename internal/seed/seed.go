// Package seed populates a fresh database with demo accounts and
// appointments for local development.
package seed

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"clinic-server/internal/models"
)

// Run wipes the core tables and inserts demo data: an admin, a doctor, a
// patient with a linked account, and two appointments for today.
func Run(db *gorm.DB) error {
	for _, m := range []any{&models.Appointment{}, &models.Patient{}, &models.User{}, &models.AuditLog{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return fmt.Errorf("wiping table: %w", err)
		}
	}

	admin := models.User{Username: "admin", Role: models.RoleAdmin}
	if err := admin.SetPassword("Admin#12345"); err != nil {
		return err
	}
	doctor := models.User{Username: "drhouse", Role: models.RoleDoctor}
	if err := doctor.SetPassword("Doctor#12345"); err != nil {
		return err
	}
	patientUser := models.User{Username: "janedoe", Role: models.RolePatient}
	if err := patientUser.SetPassword("Patient#12345"); err != nil {
		return err
	}
	for _, u := range []*models.User{&admin, &doctor, &patientUser} {
		if err := db.Create(u).Error; err != nil {
			return fmt.Errorf("seeding user %s: %w", u.Username, err)
		}
	}

	dob := time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC)
	patient := models.Patient{
		UserID:      patientUser.ID,
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: &dob,
		Phone:       "+15551239",
		Email:       "jane@example.com",
		Gender:      "female",
		MRN:         "MRN-1001",
	}
	if err := db.Create(&patient).Error; err != nil {
		return fmt.Errorf("seeding patient: %w", err)
	}

	now := time.Now()
	today9 := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location())
	today11 := time.Date(now.Year(), now.Month(), now.Day(), 11, 0, 0, 0, now.Location())

	appts := []models.Appointment{
		{
			PatientID:       patient.ID,
			DoctorUserID:    doctor.ID,
			StartTime:       today9,
			DurationMinutes: 30,
			Status:          models.StatusScheduled,
			Reason:          "Annual checkup",
		},
		{
			PatientID:       patient.ID,
			DoctorUserID:    doctor.ID,
			StartTime:       today11,
			DurationMinutes: 45,
			Status:          models.StatusScheduled,
			Reason:          "Follow-up",
		},
	}
	for i := range appts {
		if err := db.Create(&appts[i]).Error; err != nil {
			return fmt.Errorf("seeding appointment: %w", err)
		}
	}

	return nil
}
