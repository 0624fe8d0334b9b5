package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Parent  UserRole = "parent"
	Admin   UserRole = "admin"
)

func ValidRole(r UserRole) bool {
	switch r {
	case Student, Teacher, Parent, Admin:
		return true
	}
	return false
}

// swagger:model User
type User struct {
	BaseModel
	Name           string     `gorm:"size:100;not null" json:"name"`
	Email          string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password       string     `gorm:"size:100;not null" json:"-"`
	Role           UserRole   `gorm:"size:20;default:'student'" json:"role"`
	XP             int        `gorm:"default:0" json:"xp"` // 成就积分累计
	Phone          string     `gorm:"size:20" json:"phone,omitempty"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	School         string     `gorm:"size:200" json:"school,omitempty"`
	GradeLevel     string     `gorm:"size:20" json:"gradeLevel,omitempty"`
	ProfilePicture string     `gorm:"size:255" json:"profilePicture,omitempty"`
	Bio            string     `gorm:"type:text" json:"bio,omitempty"`
	IsVerified     bool       `gorm:"default:false" json:"isVerified"`
	Disabled       bool       `gorm:"default:false" json:"disabled"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	LastSeen       *time.Time `json:"lastSeen,omitempty"`
}

func (User) TableName() string {
	return "users"
}
