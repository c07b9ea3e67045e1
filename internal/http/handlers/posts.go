package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmacedo/blogapp/internal/domain/category"
	"github.com/rmacedo/blogapp/internal/domain/post"
	"github.com/rmacedo/blogapp/internal/session"
	"github.com/rmacedo/blogapp/internal/utils"
	"github.com/rmacedo/blogapp/internal/validation"
)

type PostsStore interface {
	Create(ctx context.Context, p post.Post) error
	Update(ctx context.Context, id string, form post.Form) (post.Post, error)
	GetByID(ctx context.Context, id string) (post.Post, error)
	GetBySlug(ctx context.Context, slug string) (post.Post, error)
	ListRecent(ctx context.Context) ([]post.WithCategory, error)
	ListByCategory(ctx context.Context, categoryID string) ([]post.WithCategory, error)
	Delete(ctx context.Context, id string) error
}

type PostsHandler struct {
	posts      PostsStore
	categories CategoriesStore
	sessions   *session.Manager
	log        *slog.Logger
}

func NewPostsHandler(posts PostsStore, categories CategoriesStore, sessions *session.Manager, log *slog.Logger) *PostsHandler {
	return &PostsHandler{
		posts:      posts,
		categories: categories,
		sessions:   sessions,
		log:        log,
	}
}

// Public pages

func (h *PostsHandler) Home(c *gin.Context) {
	posts, err := h.posts.ListRecent(c.Request.Context())

	if err != nil {
		h.log.Error("posts: home listing failed", "err", err)
		Render(c, h.sessions, http.StatusInternalServerError, "index", gin.H{
			"Posts": nil,
		})
		return
	}

	Render(c, h.sessions, http.StatusOK, "index", gin.H{
		"Posts": posts,
	})
}

// ShowBySlug treats an unknown slug as a normal outcome, not a
// failure: flash and redirect home.
func (h *PostsHandler) ShowBySlug(c *gin.Context) {
	p, err := h.posts.GetBySlug(c.Request.Context(), c.Param("slug"))

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			RedirectWithError(c, h.sessions, "/", "Esta postagem não existe")
			return
		}

		h.log.Error("posts: slug lookup failed", "err", err)
		RedirectWithError(c, h.sessions, "/", MsgInternalError)
		return
	}

	Render(c, h.sessions, http.StatusOK, "postagem", gin.H{
		"Post": p,
	})
}

// Admin pages

func (h *PostsHandler) ListAdmin(c *gin.Context) {
	posts, err := h.posts.ListRecent(c.Request.Context())

	if err != nil {
		h.log.Error("posts: admin listing failed", "err", err)
		RedirectWithError(c, h.sessions, "/admin", MsgInternalError)
		return
	}

	Render(c, h.sessions, http.StatusOK, "admin/postagens", gin.H{
		"Posts": posts,
	})
}

func (h *PostsHandler) ShowAddForm(c *gin.Context) {
	cats, err := h.categories.ListByName(c.Request.Context())

	if err != nil {
		h.log.Error("posts: category listing failed", "err", err)
		RedirectWithError(c, h.sessions, "/admin/postagens", MsgInternalError)
		return
	}

	Render(c, h.sessions, http.StatusOK, "admin/addpostagem", gin.H{
		"Form":       post.Form{},
		"Categorias": cats,
	})
}

// checkForm validates the post form including the category reference.
// The category check needs a store lookup, so this is not part of the
// pure validation package.
func (h *PostsHandler) checkForm(ctx context.Context, form post.Form) ([]string, error) {
	erros := validation.Check(map[string]string{
		"titulo":    form.Titulo,
		"slug":      form.Slug,
		"descricao": form.Descricao,
		"conteudo":  form.Conteudo,
	}, validation.PostSchema)

	if form.Categoria == "" || form.Categoria == post.PlaceholderCategory {
		return append(erros, "Categoria inválida, registre uma categoria"), nil
	}

	_, err := h.categories.GetByID(ctx, form.Categoria)

	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			return append(erros, "Categoria inválida, registre uma categoria"), nil
		}

		return nil, err
	}

	return erros, nil
}

// reRenderForm shows the form again with the candidate's own input and
// the current category list, so nothing has to be retyped.
func (h *PostsHandler) reRenderForm(c *gin.Context, tmpl string, form post.Form, postID string, erros []string) {
	cats, err := h.categories.ListByName(c.Request.Context())

	if err != nil {
		h.log.Error("posts: category listing failed", "err", err)
		RedirectWithError(c, h.sessions, "/admin/postagens", MsgInternalError)
		return
	}

	data := gin.H{
		"Erros":      erros,
		"Form":       form,
		"Categorias": cats,
	}

	if postID != "" {
		data["Post"] = post.Post{ID: postID}
	}

	Render(c, h.sessions, http.StatusUnprocessableEntity, tmpl, data)
}

func (h *PostsHandler) Create(c *gin.Context) {
	var form post.Form

	_ = c.ShouldBind(&form)

	ctx := c.Request.Context()

	erros, err := h.checkForm(ctx, form)

	if err != nil {
		h.log.Error("posts: form check failed", "err", err)
		RedirectWithError(c, h.sessions, "/admin/postagens", MsgInternalError)
		return
	}

	if len(erros) > 0 {
		h.reRenderForm(c, "admin/addpostagem", form, "", erros)
		return
	}

	err = h.posts.Create(ctx, post.NewFromForm(form))

	if err != nil {
		if errors.Is(err, post.ErrSlugTaken) {
			h.reRenderForm(c, "admin/addpostagem", form, "", []string{"Este slug já está em uso"})
			return
		}

		h.log.Error("posts: create failed", "err", err)
		RedirectWithError(c, h.sessions, "/admin/postagens", MsgInternalError)
		return
	}

	RedirectWithSuccess(c, h.sessions, "/admin/postagens", "Postagem criada com sucesso")
}

func (h *PostsHandler) ShowEditForm(c *gin.Context) {
	id := c.Param("id")

	if !utils.IsUUID(id) {
		RedirectWithError(c, h.sessions, "/admin/postagens", "Esta postagem não existe")
		return
	}

	ctx := c.Request.Context()

	p, err := h.posts.GetByID(ctx, id)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			RedirectWithError(c, h.sessions, "/admin/postagens", "Esta postagem não existe")
			return
		}

		h.log.Error("posts: edit lookup failed", "err", err)
		RedirectWithError(c, h.sessions, "/admin/postagens", MsgInternalError)
		return
	}

	cats, err := h.categories.ListByName(ctx)

	if err != nil {
		h.log.Error("posts: category listing failed", "err", err)
		RedirectWithError(c, h.sessions, "/admin/postagens", MsgInternalError)
		return
	}

	Render(c, h.sessions, http.StatusOK, "admin/editpostagem", gin.H{
		"Post": p,
		"Form": post.Form{
			Titulo:    p.Title,
			Slug:      p.Slug,
			Descricao: p.Description,
			Conteudo:  p.Content,
			Categoria: p.CategoryID,
		},
		"Categorias": cats,
	})
}

func (h *PostsHandler) Update(c *gin.Context) {
	id := c.PostForm("id")

	var form post.Form

	_ = c.ShouldBind(&form)

	ctx := c.Request.Context()

	erros, err := h.checkForm(ctx, form)

	if err != nil {
		h.log.Error("posts: form check failed", "err", err)
		RedirectWithError(c, h.sessions, "/admin/postagens", MsgInternalError)
		return
	}

	if len(erros) > 0 {
		h.reRenderForm(c, "admin/editpostagem", form, id, erros)
		return
	}

	form.Slug = utils.Slugify(form.Slug)

	_, err = h.posts.Update(ctx, id, form)

	if err != nil {
		switch {
		case errors.Is(err, post.ErrNotFound):
			RedirectWithError(c, h.sessions, "/admin/postagens", "Esta postagem não existe")
		case errors.Is(err, post.ErrSlugTaken):
			h.reRenderForm(c, "admin/editpostagem", form, id, []string{"Este slug já está em uso"})
		default:
			h.log.Error("posts: update failed", "err", err)
			RedirectWithError(c, h.sessions, "/admin/postagens", MsgInternalError)
		}
		return
	}

	RedirectWithSuccess(c, h.sessions, "/admin/postagens", "Postagem editada com sucesso")
}

func (h *PostsHandler) Delete(c *gin.Context) {
	id := c.PostForm("id")

	err := h.posts.Delete(c.Request.Context(), id)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			RedirectWithError(c, h.sessions, "/admin/postagens", "Esta postagem não existe")
			return
		}

		h.log.Error("posts: delete failed", "err", err)
		RedirectWithError(c, h.sessions, "/admin/postagens", MsgInternalError)
		return
	}

	RedirectWithSuccess(c, h.sessions, "/admin/postagens", "Postagem deletada com sucesso")
}
