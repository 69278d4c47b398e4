package models

import (
	"time"

	"gorm.io/gorm"
)

// AuditLog records API activity. Rows live in the in-memory SQLite database.
type AuditLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	ProfileID string         `json:"profile_id" gorm:"index"`
	Role      Role           `json:"role"`
	Action    string         `json:"action" gorm:"not null"`
	Resource  string         `json:"resource" gorm:"not null"`
	Details   string         `json:"details"`
	IPAddress string         `json:"ip_address"`
	UserAgent string         `json:"user_agent"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
