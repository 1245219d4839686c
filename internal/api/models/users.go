package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles determine the authorization tier of a user.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username    string     `gorm:"uniqueIndex;not null;size:150" json:"username"`
	Email       string     `gorm:"uniqueIndex;not null;size:254" json:"email"`
	FirstName   string     `gorm:"size:150" json:"first_name"`
	LastName    string     `gorm:"size:150" json:"last_name"`
	Bio         string     `gorm:"type:text" json:"bio"`
	Role        string     `gorm:"default:'user';not null;size:10" json:"role"`
	IsStaff     bool       `gorm:"default:false;not null" json:"-"`
	IsSuperuser bool       `gorm:"default:false;not null" json:"-"`
	Confirmed   bool       `gorm:"default:false;not null" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// IsModerator reports whether the user holds moderator rights.
func (user *User) IsModerator() bool {
	return user.Role == RoleModerator
}

// IsAdmin reports whether the user holds admin rights. Staff and
// superuser accounts count as admins regardless of their role field.
func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin || user.IsStaff || user.IsSuperuser
}

func (User) TableName() string {
	return "users"
}
