// Package appointments implements the appointment lifecycle: creation,
// listing, partial update, soft delete and restore, with doctor-availability
// conflict detection and a best-effort audit trail.
package appointments

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"clinic-server/internal/access"
	"clinic-server/internal/apperrors"
	"clinic-server/internal/audit"
	"clinic-server/internal/models"
	"clinic-server/internal/sanitize"
)

const resourceName = "appointment"

// Service orchestrates appointment lifecycle operations against the store,
// enforcing access policy, validation, conflict detection and auditing.
type Service struct {
	store    Store
	recorder audit.Recorder
	logger   zerolog.Logger
	buffer   time.Duration
	validate *validator.Validate
}

// NewService wires a lifecycle service. A zero buffer falls back to
// DefaultBuffer.
func NewService(store Store, recorder audit.Recorder, logger zerolog.Logger, buffer time.Duration) *Service {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if recorder == nil {
		recorder = audit.Nop()
	}
	return &Service{
		store:    store,
		recorder: recorder,
		logger:   logger,
		buffer:   buffer,
		validate: newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report field names as their json tags so validation detail matches the
	// wire payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CreateInput is the payload for creating an appointment. Prefer ids; legacy
// free-text names are accepted, but at least one identifier form per
// participant must be present.
type CreateInput struct {
	PatientID    string `json:"patientId" validate:"omitempty,uuid"`
	DoctorUserID string `json:"doctorUserId" validate:"omitempty,uuid"`
	PatientName  string `json:"patientName" validate:"omitempty,min=2,max=100"`
	DoctorName   string `json:"doctorName" validate:"omitempty,min=2,max=100"`

	Date            *time.Time               `json:"date" validate:"required"`
	DurationMinutes *int                     `json:"durationMinutes" validate:"omitempty,min=5,max=480"`
	Status          models.AppointmentStatus `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	Reason          string                   `json:"reason"`
	Notes           string                   `json:"notes"`
}

// UpdateInput is the partial payload for updating an appointment. Only
// non-nil fields are applied; at least one must be supplied.
type UpdateInput struct {
	PatientID    *string `json:"patientId" validate:"omitempty,uuid"`
	DoctorUserID *string `json:"doctorUserId" validate:"omitempty,uuid"`
	PatientName  *string `json:"patientName" validate:"omitempty,min=2,max=100"`
	DoctorName   *string `json:"doctorName" validate:"omitempty,min=2,max=100"`

	Date            *time.Time                `json:"date"`
	DurationMinutes *int                      `json:"durationMinutes" validate:"omitempty,min=5,max=480"`
	Status          *models.AppointmentStatus `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	Reason          *string                   `json:"reason"`
	Notes           *string                   `json:"notes"`
}

func (in *UpdateInput) empty() bool {
	return in.PatientID == nil && in.DoctorUserID == nil &&
		in.PatientName == nil && in.DoctorName == nil &&
		in.Date == nil && in.DurationMinutes == nil &&
		in.Status == nil && in.Reason == nil && in.Notes == nil
}

// Create validates and persists a new appointment. The conflict check and the
// insert run in one store transaction so two concurrent creates for the same
// doctor and slot cannot both pass the check.
func (s *Service) Create(ctx context.Context, p access.Principal, in CreateInput) (*models.Appointment, error) {
	if !access.Allowed(p, access.OpAppointmentCreate) {
		return nil, apperrors.Forbidden("role not permitted to create appointments")
	}

	in.PatientName = sanitize.String(in.PatientName)
	in.DoctorName = sanitize.String(in.DoctorName)
	in.Reason = sanitize.String(in.Reason)
	in.Notes = sanitize.String(in.Notes)

	if fields := s.fieldErrors(&in); len(fields) > 0 {
		return nil, apperrors.Validation("validation failed", fields)
	}
	if fields := participantFields(in.PatientID, in.PatientName, in.DoctorUserID, in.DoctorName); len(fields) > 0 {
		return nil, apperrors.Validation("validation failed", fields)
	}

	appt := &models.Appointment{
		PatientID:       in.PatientID,
		DoctorUserID:    in.DoctorUserID,
		PatientName:     in.PatientName,
		DoctorName:      in.DoctorName,
		StartTime:       *in.Date,
		DurationMinutes: models.DefaultDurationMinutes,
		Status:          models.StatusScheduled,
		Reason:          in.Reason,
		Notes:           in.Notes,
		IsDeleted:       false, // forced regardless of input
	}
	if in.DurationMinutes != nil {
		appt.DurationMinutes = *in.DurationMinutes
	}
	if in.Status != "" {
		appt.Status = in.Status
	}

	err := s.store.Transact(ctx, func(tx Store) error {
		conflict, err := hasConflict(ctx, tx, appt.DoctorUserID, appt.StartTime, appt.DurationMinutes, s.buffer)
		if err != nil {
			return apperrors.Internal(err)
		}
		if conflict {
			return apperrors.Conflict("doctor has a conflicting appointment")
		}
		if err := tx.Create(ctx, appt); err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, p, "create", appt.ID, nil, appt)
	return appt, nil
}

// List returns non-deleted appointments matching the filter, ordered by start
// time ascending and capped at the maximum page size.
func (s *Service) List(ctx context.Context, p access.Principal, f Filter) ([]models.Appointment, error) {
	if !access.Allowed(p, access.OpAppointmentList) {
		return nil, apperrors.Forbidden("role not permitted to list appointments")
	}
	items, err := s.store.List(ctx, f)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return items, nil
}

// Get returns the appointment only if it exists and is not soft-deleted.
func (s *Service) Get(ctx context.Context, p access.Principal, id string) (*models.Appointment, error) {
	if !access.Allowed(p, access.OpAppointmentGet) {
		return nil, apperrors.Forbidden("not authenticated")
	}
	appt, err := s.store.Get(ctx, id)
	if err == ErrNoRecord {
		return nil, apperrors.NotFound("appointment not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if appt.IsDeleted {
		return nil, apperrors.NotFound("appointment not found")
	}
	return appt, nil
}

// Update applies a partial payload to a non-deleted appointment. The conflict
// check re-runs only when the payload carries both a doctor id and a new start
// time; a duration-only change holding the original time does not re-check.
func (s *Service) Update(ctx context.Context, p access.Principal, id string, in UpdateInput) (*models.Appointment, error) {
	if !access.Allowed(p, access.OpAppointmentUpdate) {
		return nil, apperrors.Forbidden("role not permitted to update appointments")
	}
	if in.empty() {
		return nil, apperrors.Validation("validation failed", map[string]string{
			"payload": "at least one field must be supplied",
		})
	}

	sanitizePtr(in.PatientName)
	sanitizePtr(in.DoctorName)
	sanitizePtr(in.Reason)
	sanitizePtr(in.Notes)

	if fields := s.fieldErrors(&in); len(fields) > 0 {
		return nil, apperrors.Validation("validation failed", fields)
	}

	var before, after models.Appointment
	err := s.store.Transact(ctx, func(tx Store) error {
		existing, err := tx.Get(ctx, id)
		if err == ErrNoRecord {
			return apperrors.NotFound("appointment not found")
		}
		if err != nil {
			return apperrors.Internal(err)
		}
		if existing.IsDeleted {
			return apperrors.NotFound("appointment not found")
		}
		before = *existing

		merged := *existing
		applyInput(&merged, &in)
		if fields := participantFields(merged.PatientID, merged.PatientName, merged.DoctorUserID, merged.DoctorName); len(fields) > 0 {
			return apperrors.Validation("validation failed", fields)
		}

		if in.DoctorUserID != nil && in.Date != nil {
			dur := models.DefaultDurationMinutes
			if in.DurationMinutes != nil {
				dur = *in.DurationMinutes
			}
			conflict, err := hasConflict(ctx, tx, *in.DoctorUserID, *in.Date, dur, s.buffer)
			if err != nil {
				return apperrors.Internal(err)
			}
			if conflict {
				return apperrors.Conflict("doctor has a conflicting appointment")
			}
		}

		updated, err := tx.Apply(ctx, id, false, func(a *models.Appointment) {
			applyInput(a, &in)
		})
		if err == ErrNoRecord {
			return apperrors.NotFound("appointment not found")
		}
		if err != nil {
			return apperrors.Internal(err)
		}
		after = *updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, p, "update", id, &before, &after)
	return &after, nil
}

// SoftDelete marks a non-deleted appointment as deleted. The record stays in
// storage and remains restorable.
func (s *Service) SoftDelete(ctx context.Context, p access.Principal, id string) error {
	if !access.Allowed(p, access.OpAppointmentDelete) {
		return apperrors.Forbidden("role not permitted to delete appointments")
	}
	removed, err := s.store.Apply(ctx, id, false, func(a *models.Appointment) {
		a.IsDeleted = true
	})
	if err == ErrNoRecord {
		return apperrors.NotFound("appointment not found")
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	s.record(ctx, p, "delete", id, nil, removed)
	return nil
}

// Restore clears the soft-delete flag on a currently deleted appointment,
// retaining its prior status. Admin only.
func (s *Service) Restore(ctx context.Context, p access.Principal, id string) (*models.Appointment, error) {
	if !access.Allowed(p, access.OpAppointmentRestore) {
		return nil, apperrors.Forbidden("only admins may restore appointments")
	}
	restored, err := s.store.Apply(ctx, id, true, func(a *models.Appointment) {
		a.IsDeleted = false
	})
	if err == ErrNoRecord {
		return nil, apperrors.NotFound("appointment not found or not deleted")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	s.record(ctx, p, "restore", id, nil, restored)
	return restored, nil
}

func (s *Service) record(ctx context.Context, p access.Principal, action, id string, before, after any) {
	meta := audit.MetaFromContext(ctx)
	s.recorder.Record(ctx, audit.Entry{
		Actor:      p,
		Action:     action,
		Resource:   resourceName,
		ResourceID: id,
		Before:     before,
		After:      after,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
	})
}

func (s *Service) fieldErrors(in any) map[string]string {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	fields := map[string]string{}
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range errs {
			fields[e.Field()] = validationMessage(e)
		}
		return fields
	}
	fields["payload"] = err.Error()
	return fields
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a valid id"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// participantFields enforces the cross-field participant presence rule: at
// least one patient identifier form and one doctor identifier form.
func participantFields(patientID, patientName, doctorUserID, doctorName string) map[string]string {
	fields := map[string]string{}
	if patientID == "" && patientName == "" {
		fields["patientId"] = "provide patientId or patientName"
	}
	if doctorUserID == "" && doctorName == "" {
		fields["doctorUserId"] = "provide doctorUserId or doctorName"
	}
	return fields
}

func applyInput(a *models.Appointment, in *UpdateInput) {
	if in.PatientID != nil {
		a.PatientID = *in.PatientID
	}
	if in.DoctorUserID != nil {
		a.DoctorUserID = *in.DoctorUserID
	}
	if in.PatientName != nil {
		a.PatientName = *in.PatientName
	}
	if in.DoctorName != nil {
		a.DoctorName = *in.DoctorName
	}
	if in.Date != nil {
		a.StartTime = *in.Date
	}
	if in.DurationMinutes != nil {
		a.DurationMinutes = *in.DurationMinutes
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if in.Reason != nil {
		a.Reason = *in.Reason
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
}

func sanitizePtr(s *string) {
	if s != nil {
		*s = sanitize.String(*s)
	}
}
