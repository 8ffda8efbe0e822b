package models

// AuditLog records who did what to which resource. Before/After hold JSON
// snapshots of the resource around the mutation.
type AuditLog struct {
	BaseModel
	ActorUserID string `gorm:"size:36;index" json:"actorUserId,omitempty"`
	ActorRole   Role   `gorm:"size:20" json:"actorRole,omitempty"`
	Action      string `gorm:"size:20;not null" json:"action"`   // create|update|delete|restore
	Resource    string `gorm:"size:30;not null" json:"resource"` // patient|appointment|user|...
	ResourceID  string `gorm:"size:36;index" json:"resourceId,omitempty"`
	Before      string `gorm:"type:text" json:"before,omitempty"`
	After       string `gorm:"type:text" json:"after,omitempty"`
	IP          string `gorm:"size:45" json:"ip,omitempty"`
	UserAgent   string `gorm:"size:255" json:"userAgent,omitempty"`
}
