package models

import (
	"time"
)

// Built-in group names. A user belonging to neither group is treated as a
// customer.
const (
	GroupManager      = "Manager"
	GroupDeliveryCrew = "Delivery crew"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" gorm:"not null"`
	IsStaff      bool      `json:"is_staff" gorm:"default:false"`
	Groups       []Group   `json:"groups,omitempty" gorm:"many2many:user_groups;"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Group is a named role a user may belong to. Membership is non-exclusive:
// authorization checks test membership directly, with no hierarchy between
// groups.
type Group struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"uniqueIndex;not null"`
	Users []User `json:"-" gorm:"many2many:user_groups;"`
}
