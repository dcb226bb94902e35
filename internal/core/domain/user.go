package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrUserInactive       = errors.New("user account is disabled")
	ErrInvalidRole        = errors.New("invalid role (must be admin or user)")
	ErrForbidden          = errors.New("admin role required")
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// StoreKeys is the list of stores a user is restricted to. It is stored as
// a JSON array column.
type StoreKeys []string

func (s StoreKeys) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StoreKeys) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = StoreKeys{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("store keys: unsupported type %T", src)
	}

	var keys []string
	if err := json.Unmarshal(raw, &keys); err != nil {
		return fmt.Errorf("store keys: %w", err)
	}
	*s = keys
	return nil
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	Role         string    `json:"role" db:"role"`
	Stores       StoreKeys `json:"stores" db:"stores"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func NewUser(id, email string) (*User, error) {

	email = strings.TrimSpace(email)

	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()
	return &User{
		ID:        id,
		Email:     strings.ToLower(email),
		Role:      RoleUser,
		Stores:    StoreKeys{},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (u *User) SetPassword(plainPassword string) error {
	if utf8.RuneCountInString(plainPassword) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), 12)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *User) CheckPassword(plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plainPassword))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UpdateProfile replaces the authorization profile. Store keys are trimmed
// and deduplicated; an empty list grants every store.
func (u *User) UpdateProfile(displayName, role string, stores []string, active bool) error {
	role = strings.TrimSpace(role)
	if role == "" {
		role = RoleUser
	}
	if role != RoleAdmin && role != RoleUser {
		return ErrInvalidRole
	}

	seen := make(map[string]bool)
	clean := StoreKeys{}
	for _, s := range stores {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		clean = append(clean, s)
	}

	u.DisplayName = strings.TrimSpace(displayName)
	u.Role = role
	u.Stores = clean
	u.Active = active
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)

	// UpdateProfile persists display name, role, stores and active flag.
	UpdateProfile(ctx context.Context, user *User) error
}
