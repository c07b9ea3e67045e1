package post

import (
	"errors"
	"time"
)

type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	CategoryID  string    `json:"categoryId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WithCategory is a Post joined with the name of its category for listings.
// CategoryName is empty when the reference dangles (category deleted).
type WithCategory struct {
	Post
	CategoryName string `json:"categoryName"`
}

var (
	ErrNotFound  = errors.New("post not found")
	ErrSlugTaken = errors.New("post slug already in use")
)

// PlaceholderCategory is the value of the unselected option in the
// category dropdown of the post form.
const PlaceholderCategory = "0"

type Form struct {
	Titulo    string `form:"titulo"`
	Slug      string `form:"slug"`
	Descricao string `form:"descricao"`
	Conteudo  string `form:"conteudo"`
	Categoria string `form:"categoria"`
}
