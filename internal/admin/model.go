package admin

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/validation"

	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	// bcrypt rejects longer passwords.
	maxPasswordBytes = 72
)

// hashCost is lowered in tests.
var hashCost = bcrypt.DefaultCost

type Admin struct {
	bun.BaseModel `bun:"table:admins,alias:a"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Email     string    `bun:"email,unique,notnull" json:"email"`
	Password  string    `bun:"password,notnull" json:"-"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// NewAdmin validates email and the plain password, then stores the bcrypt hash.
func NewAdmin(email, password string) (*Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := apperr.NewFields("admin").
		Check("email", validation.Email(email)).
		Check("password", passwordRule(password)).
		Err(); err != nil {
		return nil, err
	}

	a := &Admin{Email: email}
	if err := a.hash(password); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Admin) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if msg := validation.Email(email); msg != "" {
		return apperr.Invalid("admin", "email", msg)
	}
	a.Email = email
	return nil
}

func (a *Admin) SetPassword(password string) error {
	if msg := passwordRule(password); msg != "" {
		return apperr.Invalid("admin", "password", msg)
	}
	return a.hash(password)
}

// CheckPassword reports whether password matches the stored hash.
func (a *Admin) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) == nil
}

func (a *Admin) hash(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	a.Password = string(hashed)
	return nil
}

func passwordRule(password string) string {
	switch {
	case validation.IsBlank(password):
		return "must not be blank"
	case utf8.RuneCountInString(password) < minPasswordLength:
		return fmt.Sprintf("must have at least %d characters", minPasswordLength)
	case len(password) > maxPasswordBytes:
		return fmt.Sprintf("must be at most %d bytes", maxPasswordBytes)
	}
	return ""
}

type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Admin       *Admin    `json:"admin"`
}
