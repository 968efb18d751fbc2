package core

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Post is a blog entry. Author is the creating subject, fixed at creation
// and never reassigned.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	List(ctx context.Context) ([]Post, error)
	Get(ctx context.Context, id int64) (*Post, error)
	Create(ctx context.Context, title, author, content string) (*Post, error)
	Update(ctx context.Context, id int64, title, content string) (*Post, error)
	Delete(ctx context.Context, id int64) error
}

// PgPostRepository implements PostRepository using pgxpool.
type PgPostRepository struct {
	db *pgxpool.Pool
}

func NewPgPostRepository(db *pgxpool.Pool) *PgPostRepository {
	return &PgPostRepository{db: db}
}

// List returns all posts, newest first.
func (r *PgPostRepository) List(ctx context.Context) ([]Post, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, title, author, content, created_at, updated_at
FROM posts
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Author, &p.Content, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *PgPostRepository) Get(ctx context.Context, id int64) (*Post, error) {
	const q = `SELECT id, title, author, content, created_at, updated_at FROM posts WHERE id=$1`
	var p Post
	if err := r.db.QueryRow(ctx, q, id).Scan(&p.ID, &p.Title, &p.Author, &p.Content, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgPostRepository) Create(ctx context.Context, title, author, content string) (*Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	const q = `INSERT INTO posts (title, author, content) VALUES ($1,$2,$3) RETURNING id, created_at, updated_at`
	var p Post
	if err := r.db.QueryRow(ctx, q, title, author, content).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Title = title
	p.Author = author
	p.Content = content
	return &p, nil
}

// Update changes title and content only; author is immutable.
func (r *PgPostRepository) Update(ctx context.Context, id int64, title, content string) (*Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	const q = `UPDATE posts SET title=$1, content=$2, updated_at=now() WHERE id=$3 RETURNING id, author, created_at, updated_at`
	var p Post
	if err := r.db.QueryRow(ctx, q, title, content, id).Scan(&p.ID, &p.Author, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Title = title
	p.Content = content
	return &p, nil
}

func (r *PgPostRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM posts WHERE id=$1`
	_, err := r.db.Exec(ctx, q, id)
	return err
}
