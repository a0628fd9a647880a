package models

import "time"

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleEditor UserRole = "editor"
)

func (r UserRole) Valid() bool {
	return r == UserRoleAdmin || r == UserRoleEditor
}

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Name         string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
