package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"clinic-server/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func staffRouter() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "u1")
		c.Set("userRole", models.RoleReceptionist)
	})
	return r
}

func TestListAppointments_RejectsUnknownStatus(t *testing.T) {
	h := NewAppointmentHandler(nil)
	r := staffRouter()
	r.GET("/appointments", h.ListAppointments)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/appointments?status=rescheduled", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpdatePatient_RejectsUnknownGender(t *testing.T) {
	h := NewPatientHandler(nil, nil)
	r := staffRouter()
	r.PUT("/patients/:id", h.UpdatePatient)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/patients/p1", strings.NewReader(`{"gender":"robot"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
