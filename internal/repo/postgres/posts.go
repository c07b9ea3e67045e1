package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rmacedo/blogapp/internal/domain/post"
	"github.com/rmacedo/blogapp/internal/observability"
)

type PostsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPostsRepo(pool *pgxpool.Pool, prom *observability.Prom) *PostsRepo {
	return &PostsRepo{pool: pool, prom: prom}
}

func (r *PostsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *PostsRepo) Create(ctx context.Context, p post.Post) error {
	err := r.observe("posts.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO posts (id, title, slug, description, content, category_id, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			p.ID, p.Title, p.Slug, p.Description, p.Content, p.CategoryID, p.CreatedAt,
		)
		return e
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return post.ErrSlugTaken
		}

		return err
	}

	return nil
}

func (r *PostsRepo) Update(ctx context.Context, id string, form post.Form) (post.Post, error) {
	var p post.Post

	err := r.observe("posts.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE posts
			 SET title = $2,
			     slug = $3,
			     description = $4,
			     content = $5,
			     category_id = $6
			 WHERE id = $1
			 RETURNING id, title, slug, description, content, category_id, created_at`,
			id, form.Titulo, form.Slug, form.Descricao, form.Conteudo, form.Categoria,
		).Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Content, &p.CategoryID, &p.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post.Post{}, post.ErrNotFound
		}

		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return post.Post{}, post.ErrSlugTaken
		}

		return post.Post{}, err
	}

	return p, nil
}

func (r *PostsRepo) GetByID(ctx context.Context, id string) (post.Post, error) {
	return r.getOne(ctx, "posts.get_by_id", `WHERE id = $1`, id)
}

func (r *PostsRepo) GetBySlug(ctx context.Context, slug string) (post.Post, error) {
	return r.getOne(ctx, "posts.get_by_slug", `WHERE slug = $1`, slug)
}

func (r *PostsRepo) getOne(ctx context.Context, op, where, arg string) (post.Post, error) {
	var p post.Post

	err := r.observe(op, func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, title, slug, description, content, category_id, created_at
			 FROM posts `+where,
			arg,
		).Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Content, &p.CategoryID, &p.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post.Post{}, post.ErrNotFound
		}

		return post.Post{}, err
	}

	return p, nil
}

// ListRecent returns posts newest first with the category name
// resolved. LEFT JOIN so posts whose category was deleted still list,
// with an empty category name.
func (r *PostsRepo) ListRecent(ctx context.Context) ([]post.WithCategory, error) {
	return r.listJoined(ctx, "posts.list_recent", ``, nil)
}

func (r *PostsRepo) ListByCategory(ctx context.Context, categoryID string) ([]post.WithCategory, error) {
	return r.listJoined(ctx, "posts.list_by_category", `WHERE p.category_id = $1`, []any{categoryID})
}

func (r *PostsRepo) listJoined(ctx context.Context, op, where string, args []any) ([]post.WithCategory, error) {
	var out []post.WithCategory

	err := r.observe(op, func() error {
		rows, e := r.pool.Query(ctx,
			`SELECT p.id, p.title, p.slug, p.description, p.content, p.category_id, p.created_at,
			        COALESCE(c.name, '') AS category_name
			 FROM posts p
			 LEFT JOIN categories c ON c.id = p.category_id
			 `+where+`
			 ORDER BY p.created_at DESC, p.id ASC`,
			args...)

		if e != nil {
			return e
		}

		defer rows.Close()

		for rows.Next() {
			var p post.WithCategory

			e = rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Content, &p.CategoryID, &p.CreatedAt, &p.CategoryName)

			if e != nil {
				return e
			}

			out = append(out, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *PostsRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("posts.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return post.ErrNotFound
	}

	return nil
}
