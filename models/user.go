package models

import "time"

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleStaff  UserRole = "staff"
	UserRoleViewer UserRole = "viewer"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;not null;unique" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Email     *string   `gorm:"size:100" json:"email,omitempty"`
	FullName  *string   `gorm:"size:50" json:"full_name,omitempty"`
	Role      UserRole  `gorm:"size:20;not null;default:'staff'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
