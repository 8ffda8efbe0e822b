package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"clinic-server/internal/apperrors"
	"clinic-server/internal/config"
	"clinic-server/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestJWT_RoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationMinutes: 5}
	user := &models.User{Username: "drhouse", Role: models.RoleDoctor}
	user.ID = "user-1"

	token, err := GenerateToken(user, cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateToken(token, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != models.RoleDoctor || claims.Username != "drhouse" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestJWT_WrongSecret(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationMinutes: 5}
	user := &models.User{Username: "drhouse", Role: models.RoleDoctor}
	user.ID = "user-1"

	token, err := GenerateToken(user, cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateToken(token, "other-secret"); err == nil {
		t.Error("token validated under the wrong secret")
	}
}

func TestStrongPassword(t *testing.T) {
	cases := []struct {
		pw   string
		want bool
	}{
		{"Admin#12345", true},
		{"aB3#efgh", true},
		{"short1A#", true},
		{"alllowercase1#", false},
		{"ALLUPPERCASE1#", false},
		{"NoDigits#here", false},
		{"NoSymbols123A", false},
		{"aB1#567", false}, // too short
	}
	for _, tc := range cases {
		if got := StrongPassword(tc.pw); got != tc.want {
			t.Errorf("StrongPassword(%q) = %v, want %v", tc.pw, got, tc.want)
		}
	}
}

type bindTarget struct {
	Name string `json:"name" binding:"required" validate:"required"`
}

func TestBindAndValidate(t *testing.T) {
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var in bindTarget
		if !BindAndValidate(c, &in) {
			return
		}
		Success(c, "ok", in)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing field: status = %d, want 400", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"name":"ok"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid payload: status = %d, want 200", w.Code)
	}
}

func TestFormatValidationError(t *testing.T) {
	err := Validate(&bindTarget{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if msg := FormatValidationError(err); !strings.Contains(msg, "Name") || !strings.Contains(msg, "required") {
		t.Errorf("message = %q", msg)
	}
}

func respondStatus(t *testing.T, err error) (int, ResponseData) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondError(c, err)

	var body ResponseData
	if jerr := json.Unmarshal(w.Body.Bytes(), &body); jerr != nil {
		t.Fatalf("decoding body: %v", jerr)
	}
	return w.Code, body
}

func TestRespondError_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.Validation("bad", nil), http.StatusBadRequest},
		{apperrors.Conflict("busy"), http.StatusConflict},
		{apperrors.NotFound("gone"), http.StatusNotFound},
		{apperrors.Forbidden("no"), http.StatusForbidden},
	}
	for _, tc := range cases {
		if got, _ := respondStatus(t, tc.err); got != tc.want {
			t.Errorf("RespondError(%v) status = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestRespondError_InternalHidesDetail(t *testing.T) {
	status, body := respondStatus(t, apperrors.Internal(errNoisy{}))
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d", status)
	}
	if body.Error != "internal server error" {
		t.Errorf("internal error text leaked: %q", body.Error)
	}
}

type errNoisy struct{}

func (errNoisy) Error() string { return "dsn=user:password@tcp(db)" }

func TestRespondError_ValidationDetails(t *testing.T) {
	err := apperrors.Validation("validation failed", map[string]string{"date": "is required"})
	_, body := respondStatus(t, err)
	if body.Details["date"] != "is required" {
		t.Errorf("details = %v", body.Details)
	}
}
