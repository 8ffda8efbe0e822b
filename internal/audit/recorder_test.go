package audit

import (
	"context"
	"testing"

	"clinic-server/internal/access"
	"clinic-server/internal/models"
)

func TestRecorderFunc(t *testing.T) {
	var got Entry
	rec := RecorderFunc(func(_ context.Context, e Entry) { got = e })

	entry := Entry{
		Actor:      access.Principal{UserID: "u1", Role: models.RoleAdmin},
		Action:     "delete",
		Resource:   "appointment",
		ResourceID: "a1",
	}
	rec.Record(context.Background(), entry)
	if got != entry {
		t.Errorf("adapter passed %+v, want %+v", got, entry)
	}
}

func TestNop(t *testing.T) {
	// Must be safe to call with anything, including a nil context payload.
	Nop().Record(context.Background(), Entry{})
}

func TestMetaRoundTrip(t *testing.T) {
	ctx := WithMeta(context.Background(), Meta{IP: "192.0.2.1", UserAgent: "curl/8"})
	m := MetaFromContext(ctx)
	if m.IP != "192.0.2.1" || m.UserAgent != "curl/8" {
		t.Errorf("meta = %+v", m)
	}
}

func TestMetaFromContext_Absent(t *testing.T) {
	if m := MetaFromContext(context.Background()); m != (Meta{}) {
		t.Errorf("expected zero meta, got %+v", m)
	}
}
