package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rmacedo/blogapp/internal/domain/post"
)

// PostsRepo resolves category names through the categories repo the
// way the postgres implementation does with a LEFT JOIN: a dangling
// reference lists with an empty category name.
type PostsRepo struct {
	mu         sync.RWMutex
	items      map[string]post.Post
	categories *CategoriesRepo
}

func NewPostsRepo(categories *CategoriesRepo) *PostsRepo {
	return &PostsRepo{
		items:      make(map[string]post.Post),
		categories: categories,
	}
}

func (r *PostsRepo) Create(_ context.Context, p post.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Slug == p.Slug {
			return post.ErrSlugTaken
		}
	}

	r.items[p.ID] = p

	return nil
}

func (r *PostsRepo) Update(_ context.Context, id string, form post.Form) (post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]

	if !ok {
		return post.Post{}, post.ErrNotFound
	}

	for _, existing := range r.items {
		if existing.ID != id && existing.Slug == form.Slug {
			return post.Post{}, post.ErrSlugTaken
		}
	}

	p.Title = form.Titulo
	p.Slug = form.Slug
	p.Description = form.Descricao
	p.Content = form.Conteudo
	p.CategoryID = form.Categoria
	r.items[id] = p

	return p, nil
}

func (r *PostsRepo) GetByID(_ context.Context, id string) (post.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]

	if !ok {
		return post.Post{}, post.ErrNotFound
	}

	return p, nil
}

func (r *PostsRepo) GetBySlug(_ context.Context, slug string) (post.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if p.Slug == slug {
			return p, nil
		}
	}

	return post.Post{}, post.ErrNotFound
}

func (r *PostsRepo) ListRecent(ctx context.Context) ([]post.WithCategory, error) {
	return r.list(ctx, ""), nil
}

func (r *PostsRepo) ListByCategory(ctx context.Context, categoryID string) ([]post.WithCategory, error) {
	return r.list(ctx, categoryID), nil
}

func (r *PostsRepo) list(ctx context.Context, categoryID string) []post.WithCategory {
	r.mu.RLock()

	out := make([]post.WithCategory, 0, len(r.items))

	for _, p := range r.items {
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}

		out = append(out, post.WithCategory{Post: p})
	}

	r.mu.RUnlock()

	for i := range out {
		c, err := r.categories.GetByID(ctx, out[i].CategoryID)

		if err == nil {
			out[i].CategoryName = c.Name
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out
}

func (r *PostsRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return post.ErrNotFound
	}

	delete(r.items, id)

	return nil
}
