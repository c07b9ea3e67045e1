package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rmacedo/blogapp/internal/domain/category"
)

type CategoriesRepo struct {
	mu    sync.RWMutex
	items map[string]category.Category
}

func NewCategoriesRepo() *CategoriesRepo {
	return &CategoriesRepo{
		items: make(map[string]category.Category),
	}
}

func (r *CategoriesRepo) Create(_ context.Context, c category.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Slug == c.Slug {
			return category.ErrSlugTaken
		}
	}

	r.items[c.ID] = c

	return nil
}

func (r *CategoriesRepo) Update(_ context.Context, id, name, slug string) (category.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]

	if !ok {
		return category.Category{}, category.ErrNotFound
	}

	for _, existing := range r.items {
		if existing.ID != id && existing.Slug == slug {
			return category.Category{}, category.ErrSlugTaken
		}
	}

	c.Name = name
	c.Slug = slug
	r.items[id] = c

	return c, nil
}

func (r *CategoriesRepo) GetByID(_ context.Context, id string) (category.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]

	if !ok {
		return category.Category{}, category.ErrNotFound
	}

	return c, nil
}

func (r *CategoriesRepo) GetBySlug(_ context.Context, slug string) (category.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.items {
		if c.Slug == slug {
			return c, nil
		}
	}

	return category.Category{}, category.ErrNotFound
}

func (r *CategoriesRepo) ListByName(_ context.Context) ([]category.Category, error) {
	out := r.snapshot()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out, nil
}

func (r *CategoriesRepo) ListRecent(_ context.Context) ([]category.Category, error) {
	out := r.snapshot()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *CategoriesRepo) snapshot() []category.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]category.Category, 0, len(r.items))

	for _, c := range r.items {
		out = append(out, c)
	}

	return out
}

func (r *CategoriesRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return category.ErrNotFound
	}

	delete(r.items, id)

	return nil
}
