package appointments

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"clinic-server/internal/models"
)

// memStore is an in-memory Store for tests. Transact holds the store mutex
// for the whole callback, mirroring the row-locked transaction the gorm store
// runs, so concurrent check-and-insert calls serialize the same way.
type memStore struct {
	mu   sync.Mutex
	rows map[string]models.Appointment
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]models.Appointment)}
}

func (m *memStore) Create(ctx context.Context, appt *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memView{m}).Create(ctx, appt)
}

func (m *memStore) List(ctx context.Context, f Filter) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memView{m}).List(ctx, f)
}

func (m *memStore) Get(ctx context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memView{m}).Get(ctx, id)
}

func (m *memStore) Apply(ctx context.Context, id string, deleted bool, mutate func(*models.Appointment)) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memView{m}).Apply(ctx, id, deleted, mutate)
}

func (m *memStore) ActiveForDoctor(ctx context.Context, doctorUserID string, from, to time.Time) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memView{m}).ActiveForDoctor(ctx, doctorUserID, from, to)
}

func (m *memStore) Transact(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[string]models.Appointment, len(m.rows))
	for k, v := range m.rows {
		snapshot[k] = v
	}
	if err := fn(&memView{m}); err != nil {
		m.rows = snapshot
		return err
	}
	return nil
}

// memView runs against the store without locking; only reachable while the
// parent's mutex is held.
type memView struct {
	s *memStore
}

func (v *memView) Create(_ context.Context, appt *models.Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	now := time.Now()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	v.s.rows[appt.ID] = *appt
	return nil
}

func (v *memView) List(_ context.Context, f Filter) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range v.s.rows {
		if a.IsDeleted {
			continue
		}
		if f.DoctorUserID != "" && a.DoctorUserID != f.DoctorUserID {
			continue
		}
		if f.PatientID != "" && a.PatientID != f.PatientID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.From != nil && a.StartTime.Before(*f.From) {
			continue
		}
		if f.To != nil && a.StartTime.After(*f.To) {
			continue
		}
		if f.Query != "" && !matchesQuery(&a, f.Query) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	if len(out) > maxListLimit {
		out = out[:maxListLimit]
	}
	return out, nil
}

func matchesQuery(a *models.Appointment, q string) bool {
	q = strings.ToLower(q)
	for _, s := range []string{a.PatientName, a.DoctorName, a.Reason, a.Notes} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func (v *memView) Get(_ context.Context, id string) (*models.Appointment, error) {
	a, ok := v.s.rows[id]
	if !ok {
		return nil, ErrNoRecord
	}
	return &a, nil
}

func (v *memView) Apply(_ context.Context, id string, deleted bool, mutate func(*models.Appointment)) (*models.Appointment, error) {
	a, ok := v.s.rows[id]
	if !ok || a.IsDeleted != deleted {
		return nil, ErrNoRecord
	}
	mutate(&a)
	a.UpdatedAt = time.Now()
	v.s.rows[id] = a
	return &a, nil
}

func (v *memView) ActiveForDoctor(_ context.Context, doctorUserID string, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range v.s.rows {
		if a.DoctorUserID != doctorUserID || !a.Active() {
			continue
		}
		if a.StartTime.Before(from) || a.StartTime.After(to) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (v *memView) Transact(_ context.Context, fn func(Store) error) error {
	return fn(v)
}
