package post

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmacedo/blogapp/internal/utils"
)

func NewFromForm(form Form) Post {
	return Post{
		ID:          uuid.NewString(),
		Title:       form.Titulo,
		Slug:        utils.Slugify(form.Slug),
		Description: form.Descricao,
		Content:     form.Conteudo,
		CategoryID:  form.Categoria,
		CreatedAt:   time.Now().UTC(),
	}
}
