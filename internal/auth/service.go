package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/tasket-app/tasket-api/internal/logging"
	"github.com/tasket-app/tasket-api/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrNameRequired       = errors.New("name is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrNoPendingReset     = errors.New("no reset code found, please request a new one")
	ErrOTPExpired         = errors.New("reset code has expired, please request a new one")
	ErrOTPMismatch        = errors.New("invalid reset code")
)

// The same minimum applies at registration and at reset confirmation.
const minPasswordLen = 6

// otpValidity bounds how long a password reset code stays usable.
const otpValidity = 10 * time.Minute

// Argon2id parameters - tuned for security vs performance balance
// Time: 3, Memory: 64MB, Threads: 4, KeyLen: 32 bytes
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// UserStore is the credential store the auth service depends on.
// *user.Repository satisfies it.
type UserStore interface {
	Create(ctx context.Context, email, name, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	SetResetOTP(ctx context.Context, userID uuid.UUID, otp string, expiry time.Time) error
	UpdatePasswordAndClearOTP(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// Mailer defines the outbound notification surface. Delivery is always
// fire-and-forget from the service's perspective.
type Mailer interface {
	SendWelcomeEmail(ctx context.Context, toEmail, name string) error
	SendAdminSignupNotification(ctx context.Context, userEmail, name string) error
	SendOTPEmail(ctx context.Context, toEmail, name, otp string) error
}

// Service handles authentication business logic
type Service struct {
	users           UserStore
	tokens          TokenService
	mailer          Mailer
	logger          *logging.Logger
	sessionDuration time.Duration
}

func NewService(
	users UserStore,
	tokens TokenService,
	mailer Mailer,
	logger *logging.Logger,
	sessionDuration time.Duration,
) *Service {
	return &Service{
		users:           users,
		tokens:          tokens,
		mailer:          mailer,
		logger:          logger,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new account and issues a session token for it.
// Welcome and admin-notification emails are dispatched asynchronously; their
// failure never affects the registration.
func (s *Service) Register(ctx context.Context, email, password, name string) (*user.User, string, error) {
	if email == "" {
		return nil, "", ErrEmailRequired
	}
	if len(email) > 254 {
		return nil, "", ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmailFormat
	}
	if name == "" {
		return nil, "", ErrNameRequired
	}
	if password == "" {
		return nil, "", ErrPasswordRequired
	}
	if len(password) < minPasswordLen {
		return nil, "", ErrPasswordTooShort
	}

	passwordHash, err := s.hashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, email, name, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, "", user.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	go func() {
		// Fresh context: the request context dies with the response.
		emailCtx := context.Background()
		if err := s.mailer.SendWelcomeEmail(emailCtx, email, name); err != nil {
			s.logger.Warn("failed to send welcome email", "email", email, "error", err)
		}
		if err := s.mailer.SendAdminSignupNotification(emailCtx, email, name); err != nil {
			s.logger.Warn("failed to send admin signup notification", "email", email, "error", err)
		}
	}()

	token, err := s.tokens.CreateToken(newUser.ID, s.sessionDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}

	newUser.PasswordHash = ""
	return newUser, token, nil
}

// Login authenticates a user and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if !s.verifyPassword(existingUser.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existingUser.ID, s.sessionDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}

	existingUser.PasswordHash = ""
	return existingUser, token, nil
}

// RequestPasswordReset generates a 6-digit OTP, stores it with a 10-minute
// expiry, and dispatches it by email. An unknown email fails with
// user.ErrNotFound. A prior pending code is overwritten — last write wins.
// Email delivery failure is logged independently and never fails the call.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	otp, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	expiry := time.Now().Add(otpValidity)
	if err := s.users.SetResetOTP(ctx, existingUser.ID, otp, expiry); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	go func() {
		emailCtx := context.Background()
		if err := s.mailer.SendOTPEmail(emailCtx, email, existingUser.Name, otp); err != nil {
			s.logger.Warn("failed to send OTP email", "email", email, "error", err)
		}
	}()

	return nil
}

// ResetPassword validates the OTP and sets the new password. The stored OTP
// pair is cleared in the same update that writes the hash, so a consumed code
// cannot be replayed. An abandoned flow leaves its code usable until the
// natural 10-minute expiry.
func (s *Service) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}
	if len(newPassword) < minPasswordLen {
		return ErrPasswordTooShort
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if existingUser.ResetOTP == nil || existingUser.ResetOTPExpiry == nil {
		return ErrNoPendingReset
	}
	if time.Now().After(*existingUser.ResetOTPExpiry) {
		return ErrOTPExpired
	}
	if *existingUser.ResetOTP != otp {
		return ErrOTPMismatch
	}

	passwordHash, err := s.hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePasswordAndClearOTP(ctx, existingUser.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// hashPassword creates an argon2id hash of the password
func (s *Service) hashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		argon2Time,
		argon2Memory,
		argon2Threads,
		argon2KeyLen,
	)

	// Encode as: $argon2id$v=19$m=65536,t=3,p=4$salt$hash
	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		encodedSalt,
		encodedHash,
	), nil
}

// verifyPassword checks if a password matches the stored hash
func (s *Service) verifyPassword(encodedHash, password string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false
	}

	var version int
	var memory, time uint32
	var threads uint8
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads)
	if err != nil {
		return false
	}
	_, err = fmt.Sscanf(parts[2], "v=%d", &version)
	if err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	inputHash := argon2.IDKey(
		[]byte(password),
		salt,
		time,
		memory,
		threads,
		uint32(len(decodedHash)),
	)

	return subtle.ConstantTimeCompare(decodedHash, inputHash) == 1
}

// generateOTP creates a 6-digit numeric reset code from crypto/rand.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
