package category

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmacedo/blogapp/internal/utils"
)

func NewFromForm(form Form) Category {
	return Category{
		ID:        uuid.NewString(),
		Name:      form.Nome,
		Slug:      utils.Slugify(form.Slug),
		CreatedAt: time.Now().UTC(),
	}
}
