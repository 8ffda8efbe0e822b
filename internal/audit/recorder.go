// Package audit records who did what to which resource. Recording is a
// best-effort side channel: failures are logged and never surfaced to the
// operation that triggered them, so audit-trail problems cannot block
// clinical workflow.
package audit

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinic-server/internal/access"
	"clinic-server/internal/models"
)

// Entry describes one audited mutation.
type Entry struct {
	Actor      access.Principal
	Action     string // create|update|delete|restore
	Resource   string // patient|appointment|user|...
	ResourceID string
	Before     any
	After      any
	IP         string
	UserAgent  string
}

// Recorder persists audit entries. Implementations must never return control
// flow to the caller on failure; Record has no error result on purpose.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, e Entry)

// Record calls f.
func (f RecorderFunc) Record(ctx context.Context, e Entry) { f(ctx, e) }

// Nop returns a recorder that discards every entry.
func Nop() Recorder {
	return RecorderFunc(func(context.Context, Entry) {})
}

// DBRecorder writes audit rows through gorm from a detached goroutine.
type DBRecorder struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewDBRecorder creates a gorm-backed recorder.
func NewDBRecorder(db *gorm.DB, logger zerolog.Logger) *DBRecorder {
	return &DBRecorder{db: db, logger: logger}
}

// Record persists the entry asynchronously. The write deliberately outlives
// the request context.
func (r *DBRecorder) Record(ctx context.Context, e Entry) {
	row := models.AuditLog{
		ActorUserID: e.Actor.UserID,
		ActorRole:   e.Actor.Role,
		Action:      e.Action,
		Resource:    e.Resource,
		ResourceID:  e.ResourceID,
		Before:      marshalSnapshot(e.Before, r.logger),
		After:       marshalSnapshot(e.After, r.logger),
		IP:          e.IP,
		UserAgent:   e.UserAgent,
	}
	go func() {
		if err := r.db.Create(&row).Error; err != nil {
			r.logger.Error().Err(err).
				Str("action", e.Action).
				Str("resource", e.Resource).
				Str("resourceId", e.ResourceID).
				Msg("audit log failed")
		}
	}()
}

func marshalSnapshot(v any, logger zerolog.Logger) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		logger.Error().Err(err).Msg("audit snapshot marshal failed")
		return ""
	}
	return string(b)
}
