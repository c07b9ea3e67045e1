package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rmacedo/blogapp/internal/domain/category"
	"github.com/rmacedo/blogapp/internal/observability"
)

type CategoriesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCategoriesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CategoriesRepo {
	return &CategoriesRepo{pool: pool, prom: prom}
}

func (r *CategoriesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *CategoriesRepo) Create(ctx context.Context, c category.Category) error {
	err := r.observe("categories.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO categories (id, name, slug, created_at)
			 VALUES ($1,$2,$3,$4)`,
			c.ID, c.Name, c.Slug, c.CreatedAt,
		)
		return e
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return category.ErrSlugTaken
		}

		return err
	}

	return nil
}

func (r *CategoriesRepo) Update(ctx context.Context, id, name, slug string) (category.Category, error) {
	var c category.Category

	err := r.observe("categories.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE categories
			 SET name = $2,
			     slug = $3
			 WHERE id = $1
			 RETURNING id, name, slug, created_at`,
			id, name, slug,
		).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return category.Category{}, category.ErrNotFound
		}

		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return category.Category{}, category.ErrSlugTaken
		}

		return category.Category{}, err
	}

	return c, nil
}

func (r *CategoriesRepo) GetByID(ctx context.Context, id string) (category.Category, error) {
	return r.getOne(ctx, "categories.get_by_id", `WHERE id = $1`, id)
}

func (r *CategoriesRepo) GetBySlug(ctx context.Context, slug string) (category.Category, error) {
	return r.getOne(ctx, "categories.get_by_slug", `WHERE slug = $1`, slug)
}

func (r *CategoriesRepo) getOne(ctx context.Context, op, where, arg string) (category.Category, error) {
	var c category.Category

	err := r.observe(op, func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, name, slug, created_at FROM categories `+where,
			arg,
		).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return category.Category{}, category.ErrNotFound
		}

		return category.Category{}, err
	}

	return c, nil
}

// ListByName serves the public listing; the admin screen uses
// ListRecent. The two orderings are intentionally different.
func (r *CategoriesRepo) ListByName(ctx context.Context) ([]category.Category, error) {
	return r.list(ctx, "categories.list_by_name", `ORDER BY name ASC`)
}

func (r *CategoriesRepo) ListRecent(ctx context.Context) ([]category.Category, error) {
	return r.list(ctx, "categories.list_recent", `ORDER BY created_at DESC`)
}

func (r *CategoriesRepo) list(ctx context.Context, op, order string) ([]category.Category, error) {
	var out []category.Category

	err := r.observe(op, func() error {
		rows, e := r.pool.Query(ctx,
			`SELECT id, name, slug, created_at FROM categories `+order)

		if e != nil {
			return e
		}

		defer rows.Close()

		for rows.Next() {
			var c category.Category

			e = rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)

			if e != nil {
				return e
			}

			out = append(out, c)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// Delete removes the category by id. Posts referencing it are left
// with a dangling reference; see the deletion policy note in DESIGN.md.
func (r *CategoriesRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("categories.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return category.ErrNotFound
	}

	return nil
}
