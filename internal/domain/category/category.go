package category

import (
	"errors"
	"time"
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	ErrNotFound  = errors.New("category not found")
	ErrSlugTaken = errors.New("category slug already in use")
)

type Form struct {
	Nome string `form:"nome"`
	Slug string `form:"slug"`
}
