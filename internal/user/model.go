package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the domain model for an account. The password hash and OTP fields
// never serialize into API responses.
type User struct {
	ID             uuid.UUID  `json:"_id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	PasswordHash   string     `json:"-"`
	ResetOTP       *string    `json:"-"`
	ResetOTPExpiry *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"-"`
}
