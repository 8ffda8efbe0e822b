package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"clinic-server/internal/appointments"
	"clinic-server/internal/middleware"
	"clinic-server/internal/models"
	"clinic-server/internal/utils"
)

// AppointmentHandler exposes the appointment lifecycle service over HTTP.
// Authorization, validation and conflict detection live in the service; the
// handler only translates requests and errors.
type AppointmentHandler struct {
	Service *appointments.Service
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(service *appointments.Service) *AppointmentHandler {
	return &AppointmentHandler{Service: service}
}

// CreateAppointment handles POST /appointments.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req appointments.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	appt, err := h.Service.Create(c.Request.Context(), principal, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Appointment created successfully", appt)
}

// ListAppointments handles GET /appointments with optional filters.
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	status := models.AppointmentStatus(c.Query("status"))
	if status != "" && !models.ValidStatus(status) {
		utils.BadRequest(c, "Unknown status: "+string(status))
		return
	}

	filter := appointments.Filter{
		DoctorUserID: c.Query("doctorUserId"),
		PatientID:    c.Query("patientId"),
		Status:       status,
		Query:        c.Query("q"),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			utils.BadRequest(c, "Invalid 'from' date, expected RFC 3339")
			return
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			utils.BadRequest(c, "Invalid 'to' date, expected RFC 3339")
			return
		}
		filter.To = &t
	}

	items, err := h.Service.List(c.Request.Context(), principal, filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", items)
}

// GetAppointmentByID handles GET /appointments/:id.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appt, err := h.Service.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment fetched successfully", appt)
}

// UpdateAppointment handles PUT /appointments/:id with a partial payload.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req appointments.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	appt, err := h.Service.Update(c.Request.Context(), principal, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment updated successfully", appt)
}

// DeleteAppointment handles DELETE /appointments/:id (soft delete).
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.Service.SoftDelete(c.Request.Context(), principal, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment deleted successfully", nil)
}

// RestoreAppointment handles POST /appointments/:id/restore (admin only).
func (h *AppointmentHandler) RestoreAppointment(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appt, err := h.Service.Restore(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment restored successfully", appt)
}
