package appointments

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-server/internal/models"
)

// ErrNoRecord is returned by Store methods when no row matches.
var ErrNoRecord = errors.New("appointment not found")

// maxListLimit caps list responses to bound payload size. No pagination
// cursor beyond this.
const maxListLimit = 500

// Filter narrows List results. Soft-deleted rows are always excluded.
type Filter struct {
	DoctorUserID string
	PatientID    string
	Status       models.AppointmentStatus
	From         *time.Time // inclusive lower bound on start time
	To           *time.Time // inclusive upper bound on start time
	Query        string     // case-insensitive match on legacy free-text fields
}

// Store is the persistence surface the lifecycle service runs against.
type Store interface {
	// Create inserts a new appointment row.
	Create(ctx context.Context, appt *models.Appointment) error
	// List returns non-deleted appointments matching the filter, ordered by
	// start time ascending, capped at maxListLimit.
	List(ctx context.Context, f Filter) ([]models.Appointment, error)
	// Get fetches by id, including soft-deleted rows.
	Get(ctx context.Context, id string) (*models.Appointment, error)
	// Apply finds the row matching (id, deleted flag), runs mutate on it and
	// persists the result, returning the post-update row. ErrNoRecord when no
	// row matches the predicate.
	Apply(ctx context.Context, id string, deleted bool, mutate func(*models.Appointment)) (*models.Appointment, error)
	// ActiveForDoctor returns the doctor's non-deleted scheduled appointments
	// starting within [from, to].
	ActiveForDoctor(ctx context.Context, doctorUserID string, from, to time.Time) ([]models.Appointment, error)
	// Transact runs fn against a store view whose reads and writes are
	// serialized with respect to concurrent Transact calls touching the same
	// rows. Returning an error rolls back.
	Transact(ctx context.Context, fn func(Store) error) error
}

// GormStore implements Store on a gorm database handle.
type GormStore struct {
	db *gorm.DB
	// inTx marks a store view created inside Transact; ActiveForDoctor then
	// takes row locks so a concurrent check-and-insert cannot interleave.
	inTx bool
}

// NewGormStore creates a Store backed by db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, appt *models.Appointment) error {
	return s.db.WithContext(ctx).Create(appt).Error
}

func (s *GormStore) List(ctx context.Context, f Filter) ([]models.Appointment, error) {
	q := s.db.WithContext(ctx).Where("is_deleted = ?", false)
	if f.DoctorUserID != "" {
		q = q.Where("doctor_user_id = ?", f.DoctorUserID)
	}
	if f.PatientID != "" {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("start_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_time <= ?", *f.To)
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where(
			"LOWER(patient_name) LIKE ? OR LOWER(doctor_name) LIKE ? OR LOWER(reason) LIKE ? OR LOWER(notes) LIKE ?",
			like, like, like, like,
		)
	}

	var items []models.Appointment
	err := q.Order("start_time asc").Limit(maxListLimit).Find(&items).Error
	return items, err
}

func (s *GormStore) Get(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.db.WithContext(ctx).First(&appt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (s *GormStore) Apply(ctx context.Context, id string, deleted bool, mutate func(*models.Appointment)) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&appt, "id = ? AND is_deleted = ?", id, deleted).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoRecord
		}
		if err != nil {
			return err
		}
		mutate(&appt)
		return tx.Save(&appt).Error
	})
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (s *GormStore) ActiveForDoctor(ctx context.Context, doctorUserID string, from, to time.Time) ([]models.Appointment, error) {
	q := s.db.WithContext(ctx)
	if s.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var items []models.Appointment
	err := q.Where(
		"doctor_user_id = ? AND is_deleted = ? AND status = ? AND start_time BETWEEN ? AND ?",
		doctorUserID, false, models.StatusScheduled, from, to,
	).Find(&items).Error
	return items, err
}

func (s *GormStore) Transact(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, inTx: true})
	})
}
