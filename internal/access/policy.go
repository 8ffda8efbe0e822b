// Package access holds the authenticated principal and the declarative
// operation-to-role-set policy table gating each lifecycle operation.
package access

import (
	"clinic-server/internal/models"
)

// Principal is the authenticated actor performing an operation.
type Principal struct {
	UserID string
	Role   models.Role
}

// Operation names an access-controlled entry point.
type Operation string

const (
	OpAppointmentCreate  Operation = "appointments.create"
	OpAppointmentList    Operation = "appointments.list"
	OpAppointmentGet     Operation = "appointments.get"
	OpAppointmentUpdate  Operation = "appointments.update"
	OpAppointmentDelete  Operation = "appointments.delete"
	OpAppointmentRestore Operation = "appointments.restore"

	OpPatientCreate  Operation = "patients.create"
	OpPatientList    Operation = "patients.list"
	OpPatientGet     Operation = "patients.get"
	OpPatientUpdate  Operation = "patients.update"
	OpPatientDelete  Operation = "patients.delete"
	OpPatientRestore Operation = "patients.restore"

	OpUserList  Operation = "users.list"
	OpAuditList Operation = "audit.list"
)

// Staff is the role set allowed to run routine scheduling operations.
var Staff = []models.Role{models.RoleAdmin, models.RoleDoctor, models.RoleNurse, models.RoleReceptionist}

// AnyAuthenticated admits every known role.
var AnyAuthenticated = []models.Role{
	models.RoleAdmin, models.RoleDoctor, models.RoleNurse, models.RoleReceptionist, models.RolePatient,
}

var adminOnly = []models.Role{models.RoleAdmin}

// policy maps each operation to its required role set. Restore is admin-only:
// reviving soft-deleted records is a more sensitive action than day-to-day
// scheduling.
var policy = map[Operation][]models.Role{
	OpAppointmentCreate:  Staff,
	OpAppointmentList:    Staff,
	OpAppointmentGet:     AnyAuthenticated,
	OpAppointmentUpdate:  Staff,
	OpAppointmentDelete:  Staff,
	OpAppointmentRestore: adminOnly,

	OpPatientCreate:  Staff,
	OpPatientList:    {models.RoleAdmin, models.RoleDoctor, models.RoleNurse},
	OpPatientGet:     {models.RoleAdmin, models.RoleDoctor, models.RoleNurse},
	OpPatientUpdate:  Staff,
	OpPatientDelete:  Staff,
	OpPatientRestore: adminOnly,

	OpUserList:  adminOnly,
	OpAuditList: adminOnly,
}

// Allowed reports whether the principal's role is in the operation's required
// set. Unknown operations admit nobody.
func Allowed(p Principal, op Operation) bool {
	roles, ok := policy[op]
	if !ok {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// Roles returns the required role set for an operation, for route wiring.
func Roles(op Operation) []models.Role {
	return policy[op]
}
