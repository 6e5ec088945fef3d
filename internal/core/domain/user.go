package domain

import (
	"errors"
	"time"
)

// User types as they travel on the wire (tipoUsuario).
const (
	UserTypeClient   = "CLIENTE"
	UserTypeProducer = "PRODUCTOR"
)

// Roles granted at registration time.
const (
	RoleUser     = "USER"
	RoleProducer = "PRODUCTOR"
	RoleAdmin    = "ADMIN"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrWrongAudience      = errors.New("account is not a producer")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// User models a registered account, either a client or a producer.
type User struct {
	ID           int64     `json:"idUsuario"`
	Email        string    `json:"email"`
	Name         string    `json:"nombre"`
	PasswordHash string    `json:"-"`
	UserType     string    `json:"tipoUsuario"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsProducer reports whether the account belongs to a producer.
func (u *User) IsProducer() bool {
	return u.UserType == UserTypeProducer
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
