package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-server/internal/audit"
	"clinic-server/internal/middleware"
	"clinic-server/internal/models"
	"clinic-server/internal/sanitize"
	"clinic-server/internal/utils"
)

// PatientHandler handles patient profile CRUD. Patients share the appointment
// soft-delete semantics: deleted profiles disappear from reads and are
// restorable by admins.
type PatientHandler struct {
	DB       *gorm.DB
	Recorder audit.Recorder
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *gorm.DB, recorder audit.Recorder) *PatientHandler {
	if recorder == nil {
		recorder = audit.Nop()
	}
	return &PatientHandler{DB: db, Recorder: recorder}
}

// AddressRequest mirrors models.Address for request binding.
type AddressRequest struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// CreatePatientRequest creates a patient profile together with a linked
// patient-role login account.
type CreatePatientRequest struct {
	Username    string         `json:"username" binding:"required,min=3,max=50"`
	Password    string         `json:"password" binding:"required,min=6"`
	FirstName   string         `json:"firstName" binding:"omitempty,max=100"`
	LastName    string         `json:"lastName" binding:"omitempty,max=100"`
	DateOfBirth *time.Time     `json:"dateOfBirth"`
	Phone       string         `json:"phone"`
	Email       string         `json:"email" binding:"omitempty,email"`
	Gender      string         `json:"gender" binding:"omitempty,oneof=male female other"`
	MRN         string         `json:"mrn"`
	Address     AddressRequest `json:"address"`
}

// CreatePatient handles POST /patients.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.User
	err := h.DB.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		utils.BadRequest(c, "Username already taken")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InternalServerError(c, "Database error")
		return
	}

	account := models.User{Username: req.Username, Role: models.RolePatient}
	if err := account.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password")
		return
	}

	patient := models.Patient{
		FirstName:   sanitize.String(req.FirstName),
		LastName:    sanitize.String(req.LastName),
		DateOfBirth: req.DateOfBirth,
		Phone:       sanitize.String(req.Phone),
		Email:       sanitize.String(req.Email),
		Gender:      req.Gender,
		MRN:         sanitize.String(req.MRN),
		Address: models.Address{
			Line1:      sanitize.String(req.Address.Line1),
			Line2:      sanitize.String(req.Address.Line2),
			City:       sanitize.String(req.Address.City),
			State:      sanitize.String(req.Address.State),
			PostalCode: sanitize.String(req.Address.PostalCode),
			Country:    sanitize.String(req.Address.Country),
		},
		IsDeleted: false,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		patient.UserID = account.ID
		return tx.Create(&patient).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to create patient")
		return
	}

	h.audit(c, "create", patient.ID, nil, patient)
	utils.Created(c, "Patient and account created successfully", patient)
}

// ListPatients handles GET /patients. Soft-deleted profiles never appear.
func (h *PatientHandler) ListPatients(c *gin.Context) {
	var patients []models.Patient
	q := h.DB.Where("is_deleted = ?", false)
	if query := c.Query("q"); query != "" {
		like := "%" + query + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR mrn LIKE ?", like, like, like)
	}
	if err := q.Order("last_name asc, first_name asc").Limit(500).Find(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients")
		return
	}
	utils.Success(c, "Patients fetched successfully", patients)
}

// GetPatientByID handles GET /patients/:id.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	var patient models.Patient
	err := h.DB.First(&patient, "id = ? AND is_deleted = ?", c.Param("id"), false).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, "Patient not found")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Database error")
		return
	}
	utils.Success(c, "Patient fetched successfully", patient)
}

// patientUpdatable lists the json fields update payloads may carry.
var patientUpdatable = map[string]bool{
	"firstName": true, "lastName": true, "dateOfBirth": true, "phone": true,
	"email": true, "gender": true, "mrn": true, "address": true,
}

var patientColumns = map[string]string{
	"firstName": "first_name", "lastName": "last_name", "dateOfBirth": "date_of_birth",
	"phone": "phone", "email": "email", "gender": "gender", "mrn": "mrn",
}

var addressColumns = map[string]string{
	"line1": "address_line1", "line2": "address_line2", "city": "address_city",
	"state": "address_state", "postalCode": "address_postal_code", "country": "address_country",
}

// UpdatePatient handles PUT /patients/:id with a partial payload.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	if len(body) == 0 {
		utils.BadRequest(c, "At least one field must be supplied")
		return
	}
	for k := range body {
		if !patientUpdatable[k] {
			utils.BadRequest(c, "Unknown field: "+k)
			return
		}
	}
	sanitize.Clean(body)

	updates := map[string]any{}
	for k, v := range body {
		if k == "address" {
			nested, ok := v.(map[string]any)
			if !ok {
				utils.BadRequest(c, "address must be an object")
				return
			}
			for ak, av := range nested {
				col, ok := addressColumns[ak]
				if !ok {
					utils.BadRequest(c, "Unknown address field: "+ak)
					return
				}
				updates[col] = av
			}
			continue
		}
		if k == "gender" {
			g, ok := v.(string)
			if !ok || (g != "" && g != "male" && g != "female" && g != "other") {
				utils.BadRequest(c, "gender must be one of: male, female, other")
				return
			}
		}
		if k == "dateOfBirth" {
			raw, ok := v.(string)
			if !ok {
				utils.BadRequest(c, "dateOfBirth must be an RFC 3339 timestamp")
				return
			}
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				utils.BadRequest(c, "dateOfBirth must be an RFC 3339 timestamp")
				return
			}
			updates[patientColumns[k]] = parsed
			continue
		}
		updates[patientColumns[k]] = v
	}

	var patient models.Patient
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&patient, "id = ? AND is_deleted = ?", c.Param("id"), false).Error; err != nil {
			return err
		}
		return tx.Model(&patient).Updates(updates).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, "Patient not found")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to update patient")
		return
	}

	h.audit(c, "update", patient.ID, nil, patient)
	utils.Success(c, "Patient updated successfully", patient)
}

// DeletePatient handles DELETE /patients/:id (soft delete).
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	res := h.DB.Model(&models.Patient{}).
		Where("id = ? AND is_deleted = ?", c.Param("id"), false).
		Update("is_deleted", true)
	if res.Error != nil {
		utils.InternalServerError(c, "Failed to delete patient")
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Patient not found")
		return
	}
	h.audit(c, "delete", c.Param("id"), nil, nil)
	utils.Success(c, "Patient deleted successfully", nil)
}

// RestorePatient handles POST /patients/:id/restore (admin only).
func (h *PatientHandler) RestorePatient(c *gin.Context) {
	res := h.DB.Model(&models.Patient{}).
		Where("id = ? AND is_deleted = ?", c.Param("id"), true).
		Update("is_deleted", false)
	if res.Error != nil {
		utils.InternalServerError(c, "Failed to restore patient")
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Patient not found or not deleted")
		return
	}

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", c.Param("id")).Error; err != nil {
		utils.InternalServerError(c, "Database error")
		return
	}
	h.audit(c, "restore", patient.ID, nil, patient)
	utils.Success(c, "Patient restored successfully", patient)
}

func (h *PatientHandler) audit(c *gin.Context, action, id string, before, after any) {
	principal, _ := middleware.PrincipalFromContext(c)
	h.Recorder.Record(c.Request.Context(), audit.Entry{
		Actor:      principal,
		Action:     action,
		Resource:   "patient",
		ResourceID: id,
		Before:     before,
		After:      after,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})
}
