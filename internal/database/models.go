package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the bun model for the users table.
// The reset OTP pair is set together on a forgot-password request and cleared
// together by a successful reset.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID             uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email          string     `bun:"email,unique,notnull"`
	Name           string     `bun:"name,notnull"`
	PasswordHash   string     `bun:"password_hash,notnull"`
	ResetOTP       *string    `bun:"reset_otp"`
	ResetOTPExpiry *time.Time `bun:"reset_otp_expiry"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,notnull,default:now()"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,notnull,default:now()"`
}

// Todo is the bun model for the todos table. The pomodoro progress sub-record
// is stored as JSONB and absent for tasks that never started a timer.
type Todo struct {
	bun.BaseModel `bun:"table:todos"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserID      uuid.UUID  `bun:"user_id,type:uuid,notnull"`
	Title       string     `bun:"title,notnull"`
	Description string     `bun:"description"`
	Completed   bool       `bun:"completed,notnull,default:false"`
	Pomodoro    *Pomodoro  `bun:"pomodoro,type:jsonb"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,notnull,default:now()"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,notnull,default:now()"`
}

// Pomodoro tracks focus-timer progress for a single task.
type Pomodoro struct {
	EstimatedPomodoros int        `json:"estimatedPomodoros"`
	CompletedPomodoros int        `json:"completedPomodoros"`
	IsActive           bool       `json:"isActive"`
	StartTime          *time.Time `json:"startTime,omitempty"`
}
