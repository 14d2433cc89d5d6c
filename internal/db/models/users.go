package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// UserRole represents the role of a user in the system
type UserRole int

// User role constants
const (
	// UserRoleUser represents a standard user
	UserRoleUser UserRole = iota
	// UserRoleAdmin represents an administrator user
	UserRoleAdmin
)

func (r UserRole) String() string {
	return []string{
		"user",
		"admin",
	}[r]
}

// ParseUserRole converts a string representation of a user role to UserRole type
func ParseUserRole(str string) (UserRole, error) {
	for i, role := range []string{
		"user",
		"admin",
	} {
		if role == str {
			return UserRole(i), nil
		}
	}
	return UserRoleUser, fmt.Errorf("invalid user role: %s", str)
}

// User represents a registered user owning research jobs
type User struct {
	gorm.Model
	Email          string   `json:"email" gorm:"not null;uniqueIndex"`
	Name           string   `json:"name" gorm:""`
	HashedPassword string   `json:"-" gorm:"not null"`
	Role           UserRole `json:"role" gorm:"index"`
}

// MarshalJSON implements the json.Marshaler interface for User
func (u User) MarshalJSON() ([]byte, error) {
	type Alias User // Create an alias to avoid infinite recursion
	return json.Marshal(Alias(u))
}

// Validate ensures that the user data is valid
func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("user email cannot be empty")
	}
	return nil
}
