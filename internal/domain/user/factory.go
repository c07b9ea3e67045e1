package user

import (
	"time"

	"github.com/google/uuid"
)

func NewFromRegisterForm(form RegisterForm, passwordHash string) User {
	return User{
		ID:           uuid.NewString(),
		Name:         form.Nome,
		Email:        form.Email,
		PasswordHash: passwordHash,
		Admin:        false, // only the seed path creates admins
		CreatedAt:    time.Now().UTC(),
	}
}
