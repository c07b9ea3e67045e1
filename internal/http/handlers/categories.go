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

type CategoriesStore interface {
	Create(ctx context.Context, c category.Category) error
	Update(ctx context.Context, id, name, slug string) (category.Category, error)
	GetByID(ctx context.Context, id string) (category.Category, error)
	GetBySlug(ctx context.Context, slug string) (category.Category, error)
	ListByName(ctx context.Context) ([]category.Category, error)
	ListRecent(ctx context.Context) ([]category.Category, error)
	Delete(ctx context.Context, id string) error
}

type CategoryPostLister interface {
	ListByCategory(ctx context.Context, categoryID string) ([]post.WithCategory, error)
}

type CategoriesHandler struct {
	categories CategoriesStore
	posts      CategoryPostLister
	sessions   *session.Manager
	log        *slog.Logger
}

func NewCategoriesHandler(categories CategoriesStore, posts CategoryPostLister, sessions *session.Manager, log *slog.Logger) *CategoriesHandler {
	return &CategoriesHandler{
		categories: categories,
		posts:      posts,
		sessions:   sessions,
		log:        log,
	}
}

// Public pages

// ListPublic orders by name; the admin listing orders by creation
// date. Both orderings are kept on purpose.
func (h *CategoriesHandler) ListPublic(c *gin.Context) {
	cats, err := h.categories.ListByName(c.Request.Context())

	if err != nil {
		h.log.Error("categories: public list failed", "err", err)
		RedirectWithError(c, h.sessions, "/", MsgInternalError)
		return
	}

	Render(c, h.sessions, http.StatusOK, "categorias", gin.H{
		"Categorias": cats,
	})
}

func (h *CategoriesHandler) ShowBySlug(c *gin.Context) {
	ctx := c.Request.Context()

	cat, err := h.categories.GetBySlug(ctx, c.Param("slug"))

	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			RedirectWithError(c, h.sessions, "/categorias", "Esta categoria não existe")
			return
		}

		h.log.Error("categories: slug lookup failed", "err", err)
		RedirectWithError(c, h.sessions, "/", MsgInternalError)
		return
	}

	posts, err := h.posts.ListByCategory(ctx, cat.ID)

	if err != nil {
		h.log.Error("categories: post listing failed", "err", err)
		RedirectWithError(c, h.sessions, "/", MsgInternalError)
		return
	}

	Render(c, h.sessions, http.StatusOK, "categoria_posts", gin.H{
		"Categoria": cat,
		"Posts":     posts,
	})
}

// Admin pages

func (h *CategoriesHandler) ListAdmin(c *gin.Context) {
	cats, err := h.categories.ListRecent(c.Request.Context())

	if err != nil {
		h.log.Error("categories: admin list failed", "err", err)
		RedirectWithError(c, h.sessions, "/admin", MsgInternalError)
		return
	}

	Render(c, h.sessions, http.StatusOK, "admin/categorias", gin.H{
		"Categorias": cats,
	})
}

func (h *CategoriesHandler) ShowAddForm(c *gin.Context) {
	Render(c, h.sessions, http.StatusOK, "admin/addcategorias", gin.H{
		"Form": category.Form{},
	})
}

func (h *CategoriesHandler) Create(c *gin.Context) {
	var form category.Form

	_ = c.ShouldBind(&form)

	erros := validation.Check(map[string]string{
		"nome": form.Nome,
		"slug": form.Slug,
	}, validation.CategorySchema)

	if len(erros) > 0 {
		Render(c, h.sessions, http.StatusUnprocessableEntity, "admin/addcategorias", gin.H{
			"Erros": erros,
			"Form":  form,
		})
		return
	}

	err := h.categories.Create(c.Request.Context(), category.NewFromForm(form))

	if err != nil {
		if errors.Is(err, category.ErrSlugTaken) {
			Render(c, h.sessions, http.StatusUnprocessableEntity, "admin/addcategorias", gin.H{
				"Erros": []string{"Este slug já está em uso"},
				"Form":  form,
			})
			return
		}

		h.log.Error("categories: create failed", "err", err)
		RedirectWithError(c, h.sessions, "/admin/categorias", MsgInternalError)
		return
	}

	RedirectWithSuccess(c, h.sessions, "/admin/categorias", "Categoria criada com sucesso")
}

func (h *CategoriesHandler) ShowEditForm(c *gin.Context) {
	id := c.Param("id")

	if !utils.IsUUID(id) {
		RedirectWithError(c, h.sessions, "/admin/categorias", "Esta categoria não existe")
		return
	}

	cat, err := h.categories.GetByID(c.Request.Context(), id)

	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			RedirectWithError(c, h.sessions, "/admin/categorias", "Esta categoria não existe")
			return
		}

		h.log.Error("categories: edit lookup failed", "err", err)
		RedirectWithError(c, h.sessions, "/admin/categorias", MsgInternalError)
		return
	}

	Render(c, h.sessions, http.StatusOK, "admin/editcategorias", gin.H{
		"Categoria": cat,
		"Form":      category.Form{Nome: cat.Name, Slug: cat.Slug},
	})
}

func (h *CategoriesHandler) Update(c *gin.Context) {
	id := c.PostForm("id")

	var form category.Form

	_ = c.ShouldBind(&form)

	erros := validation.Check(map[string]string{
		"nome": form.Nome,
		"slug": form.Slug,
	}, validation.CategorySchema)

	if len(erros) > 0 {
		Render(c, h.sessions, http.StatusUnprocessableEntity, "admin/editcategorias", gin.H{
			"Erros":     erros,
			"Form":      form,
			"Categoria": category.Category{ID: id},
		})
		return
	}

	_, err := h.categories.Update(c.Request.Context(), id, form.Nome, utils.Slugify(form.Slug))

	if err != nil {
		switch {
		case errors.Is(err, category.ErrNotFound):
			RedirectWithError(c, h.sessions, "/admin/categorias", "Esta categoria não existe")
		case errors.Is(err, category.ErrSlugTaken):
			Render(c, h.sessions, http.StatusUnprocessableEntity, "admin/editcategorias", gin.H{
				"Erros":     []string{"Este slug já está em uso"},
				"Form":      form,
				"Categoria": category.Category{ID: id},
			})
		default:
			h.log.Error("categories: update failed", "err", err)
			RedirectWithError(c, h.sessions, "/admin/categorias", MsgInternalError)
		}
		return
	}

	RedirectWithSuccess(c, h.sessions, "/admin/categorias", "Categoria editada com sucesso")
}

// Delete does not guard against posts that still reference the
// category; their reference dangles and listings show them without a
// category name.
func (h *CategoriesHandler) Delete(c *gin.Context) {
	id := c.PostForm("id")

	err := h.categories.Delete(c.Request.Context(), id)

	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			RedirectWithError(c, h.sessions, "/admin/categorias", "Esta categoria não existe")
			return
		}

		h.log.Error("categories: delete failed", "err", err)
		RedirectWithError(c, h.sessions, "/admin/categorias", MsgInternalError)
		return
	}

	RedirectWithSuccess(c, h.sessions, "/admin/categorias", "Categoria deletada com sucesso")
}
