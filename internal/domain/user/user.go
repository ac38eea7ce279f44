package user

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

var Roles = []string{RoleAdmin, RoleEditor, RoleViewer}

func IsRole(r string) bool {
	for _, v := range Roles {
		if v == r {
			return true
		}
	}
	return false
}

// NormalizeEmail is the canonical login identifier.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	DisplayName string    `gorm:"column:display_name" json:"display_name"`
	Password    string    `gorm:"not null;column:password" json:"-"`
	Role        string    `gorm:"not null;column:role;default:viewer" json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Name falls back to the mailbox part of the email.
func (u *User) Name() string {
	if strings.TrimSpace(u.DisplayName) != "" {
		return u.DisplayName
	}
	if i := strings.Index(u.Email, "@"); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}

// Preference is an arbitrary JSON value the client stores under a key, e.g. grid column widths.
type Preference struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	UserID    uint           `gorm:"not null;column:user_id;uniqueIndex:idx_user_preference_key" json:"user_id"`
	Key       string         `gorm:"not null;column:key;size:128;uniqueIndex:idx_user_preference_key" json:"key"`
	Value     datatypes.JSON `gorm:"column:value;not null" json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Preference) TableName() string { return "user_preferences" }
