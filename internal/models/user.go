package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents a user in the system
type User struct {
	BaseModel
	Email       string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password    string     `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Name        string     `gorm:"size:100" json:"name"`
	Role        Role       `gorm:"size:20;default:'user'" json:"role"`
	Age         int        `json:"age,omitempty"`
	Gender      string     `gorm:"size:20" json:"gender,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	IsActive    bool       `gorm:"default:true" json:"isActive"`
	LastActive  *time.Time `json:"lastActive,omitempty"`

	// Relations (not always preloaded)
	RefreshTokens []RefreshToken    `gorm:"foreignKey:UserID" json:"-"`
	Analyses      []SymptomAnalysis `gorm:"foreignKey:UserID" json:"-"`
	ChatSessions  []ChatSession     `gorm:"foreignKey:UserID" json:"-"`
	Appointments  []Appointment     `gorm:"foreignKey:UserID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        Role       `json:"role"`
	Age         int        `json:"age,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	IsActive    bool       `json:"isActive"`
	LastActive  *time.Time `json:"lastActive,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Age:         u.Age,
		Gender:      u.Gender,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.IsActive,
		LastActive:  u.LastActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
