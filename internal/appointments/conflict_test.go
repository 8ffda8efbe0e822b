package appointments

import (
	"context"
	"testing"
	"time"

	"clinic-server/internal/models"
)

const testDoctor = "6f1e1a2b-0000-4000-8000-000000000001"

func seedAppointment(t *testing.T, st *memStore, doctorID string, start time.Time, minutes int, status models.AppointmentStatus, deleted bool) *models.Appointment {
	t.Helper()
	appt := &models.Appointment{
		DoctorUserID:    doctorID,
		PatientName:     "Jane Doe",
		StartTime:       start,
		DurationMinutes: minutes,
		Status:          status,
		IsDeleted:       deleted,
	}
	if err := st.Create(context.Background(), appt); err != nil {
		t.Fatalf("seeding appointment: %v", err)
	}
	return appt
}

func TestHasConflict_Overlap(t *testing.T) {
	st := newMemStore()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	seedAppointment(t, st, testDoctor, base, 30, models.StatusScheduled, false)

	cases := []struct {
		name    string
		start   time.Time
		minutes int
		want    bool
	}{
		{"identical slot", base, 30, true},
		{"inside existing", base.Add(10 * time.Minute), 10, true},
		{"straddles start", base.Add(-10 * time.Minute), 30, true},
		{"back-to-back after", base.Add(30 * time.Minute), 30, true},
		{"back-to-back before", base.Add(-30 * time.Minute), 30, true},
		{"inside trailing buffer", base.Add(44 * time.Minute), 30, true},
		{"clears trailing buffer exactly", base.Add(45 * time.Minute), 30, false},
		{"inside leading buffer", base.Add(-44 * time.Minute), 30, true},
		{"clears leading buffer exactly", base.Add(-45 * time.Minute), 30, false},
		{"far away", base.Add(4 * time.Hour), 30, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := hasConflict(context.Background(), st, testDoctor, tc.start, tc.minutes, DefaultBuffer)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("hasConflict(%s, %d min) = %v, want %v", tc.start, tc.minutes, got, tc.want)
			}
		})
	}
}

func TestHasConflict_IgnoresInactive(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		status  models.AppointmentStatus
		deleted bool
	}{
		{"soft-deleted", models.StatusScheduled, true},
		{"completed", models.StatusCompleted, false},
		{"cancelled", models.StatusCancelled, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := newMemStore()
			seedAppointment(t, st, testDoctor, base, 30, tc.status, tc.deleted)

			got, err := hasConflict(context.Background(), st, testDoctor, base, 30, DefaultBuffer)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got {
				t.Errorf("%s appointment should never conflict", tc.name)
			}
		})
	}
}

func TestHasConflict_MissingDoctorID(t *testing.T) {
	st := newMemStore()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	seedAppointment(t, st, testDoctor, base, 30, models.StatusScheduled, false)

	got, err := hasConflict(context.Background(), st, "", base, 30, DefaultBuffer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("empty doctor id must never conflict")
	}
}

func TestHasConflict_OtherDoctorUnaffected(t *testing.T) {
	st := newMemStore()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	seedAppointment(t, st, testDoctor, base, 30, models.StatusScheduled, false)

	other := "6f1e1a2b-0000-4000-8000-000000000002"
	got, err := hasConflict(context.Background(), st, other, base, 30, DefaultBuffer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("conflict detection must be scoped to the doctor")
	}
}

func TestHasConflict_DefaultsDuration(t *testing.T) {
	st := newMemStore()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	// Existing appointment with a bogus non-positive duration still spans the
	// default 30 minutes for overlap purposes.
	seedAppointment(t, st, testDoctor, base, 0, models.StatusScheduled, false)

	// Candidate with zero duration is coerced to 30 minutes as well: starting
	// 40 minutes in, it falls inside the 15-minute trailing buffer.
	got, err := hasConflict(context.Background(), st, testDoctor, base.Add(40*time.Minute), 0, DefaultBuffer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("zero durations must coerce to the default and still conflict")
	}
}
