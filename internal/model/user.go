package model

import (
	"time"

	"github.com/google/uuid"
)

// Authentication methods a user account can be created with. The method is
// set once at creation and never changes.
const (
	AuthMethodBasic = "Basic"
	AuthMethodSSO   = "SSO"
)

// User represents one authenticated identity.
//
// PasswordHash is nil for SSO-originated accounts and always present for
// Basic accounts. Email uniqueness is enforced by the database index; emails
// are stored lowercased.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash *string   `json:"-" gorm:"size:255"` // Never expose in JSON
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	AuthMethod   string    `json:"auth_method" gorm:"size:16;not null;default:'Basic'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
