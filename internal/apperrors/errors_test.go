package apperrors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{Validation("bad input", nil), KindValidation},
		{Conflict("slot taken"), KindConflict},
		{NotFound("gone"), KindNotFound},
		{Forbidden("no"), KindForbidden},
		{Internal(errors.New("boom")), KindInternal},
		{errors.New("foreign"), KindInternal},
		{nil, KindInternal},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("KindOf(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("while creating: %w", Conflict("slot taken"))
	if !IsConflict(err) {
		t.Error("kind must survive wrapping")
	}
}

func TestFieldsOf(t *testing.T) {
	err := Validation("validation failed", map[string]string{"durationMinutes": "must be at most 480"})
	fields := FieldsOf(err)
	if fields["durationMinutes"] != "must be at most 480" {
		t.Errorf("fields = %v", fields)
	}
	if FieldsOf(errors.New("foreign")) != nil {
		t.Error("foreign errors carry no fields")
	}
}

func TestErrorString_IncludesFields(t *testing.T) {
	err := Validation("validation failed", map[string]string{"date": "is required"})
	if msg := err.Error(); !strings.Contains(msg, "date: is required") {
		t.Errorf("message %q should include field detail", msg)
	}
}

func TestPredicates(t *testing.T) {
	if !IsValidation(Validation("x", nil)) || IsValidation(Conflict("x")) {
		t.Error("IsValidation misclassifies")
	}
	if !IsNotFound(NotFound("x")) || IsNotFound(Forbidden("x")) {
		t.Error("IsNotFound misclassifies")
	}
}
