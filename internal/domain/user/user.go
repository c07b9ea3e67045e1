package user

import (
	"errors"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"createdAt"`
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

// RegisterForm is the typed shape of the registration form body.
// Validation happens in the validation package, not via binding tags,
// so failures re-render the form instead of producing a 400.
type RegisterForm struct {
	Nome   string `form:"nome"`
	Email  string `form:"email"`
	Senha  string `form:"senha"`
	Senha2 string `form:"senha2"`
}

type LoginForm struct {
	Email string `form:"email"`
	Senha string `form:"senha"`
}
