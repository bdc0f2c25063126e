package models

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

const minPasswordBytes = 6

// User represents a user account. Password and avatar are never serialized
// to clients; token rows live in user_tokens and are not part of the struct.
type User struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" validate:"required"`
	Email     string    `json:"email" db:"email" validate:"required,email"`
	Password  string    `json:"-" db:"password"`
	Age       int       `json:"age" db:"age" validate:"gte=0"`
	Avatar    []byte    `json:"-" db:"avatar"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Normalize trims name/email and lower-cases the email, mirroring the
// schema-level trim/lowercase behavior clients rely on.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
}

// Validate checks name, email and age. The password is validated separately
// because by the time a User is persisted it holds a hash, not a cleartext.
func (u *User) Validate() error {
	if err := validate.Struct(u); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return err
		}
		for _, fieldErr := range err.(validator.ValidationErrors) {
			switch fieldErr.Field() {
			case "Name":
				return errors.New("Name is required!")
			case "Email":
				return errors.New("Email is invalid!")
			case "Age":
				return errors.New("Age must be a positive number!")
			}
		}
		return err
	}
	return nil
}

// ValidatePassword enforces the cleartext password rules: at least six
// bytes, and the literal substring "password" is forbidden.
func ValidatePassword(password string) error {
	password = strings.TrimSpace(password)
	if strings.Contains(password, "password") {
		return errors.New(`Password cannot contain the word "password"!`)
	}
	if len(password) < minPasswordBytes {
		return errors.New("Password has to be more than 6 characters!")
	}
	return nil
}

// UserUpdate is the typed PATCH /user/me payload. Unknown fields are
// rejected at the binding layer; nil means "leave unchanged".
type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Age      *int    `json:"age"`
}
