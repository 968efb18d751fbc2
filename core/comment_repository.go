package core

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Comment belongs to exactly one post. PostID is a read-only foreign key
// fixed at creation; the parent post is looked up when needed, never held
// as a back-pointer.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	ListByPost(ctx context.Context, postID int64) ([]Comment, error)
	Get(ctx context.Context, id int64) (*Comment, error)
	Create(ctx context.Context, postID int64, author, content string) (*Comment, error)
	Update(ctx context.Context, id int64, content string) (*Comment, error)
	Delete(ctx context.Context, id int64) error
}

// PgCommentRepository implements CommentRepository using pgxpool.
type PgCommentRepository struct {
	db *pgxpool.Pool
}

func NewPgCommentRepository(db *pgxpool.Pool) *PgCommentRepository {
	return &PgCommentRepository{db: db}
}

// ListByPost returns the comments of a post, oldest first.
func (r *PgCommentRepository) ListByPost(ctx context.Context, postID int64) ([]Comment, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, post_id, author, content, created_at, updated_at
FROM comments
WHERE post_id=$1
ORDER BY created_at ASC, id ASC
`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Comment
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.PostID, &cm.Author, &cm.Content, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, cm)
	}
	return items, rows.Err()
}

func (r *PgCommentRepository) Get(ctx context.Context, id int64) (*Comment, error) {
	const q = `SELECT id, post_id, author, content, created_at, updated_at FROM comments WHERE id=$1`
	var cm Comment
	if err := r.db.QueryRow(ctx, q, id).Scan(&cm.ID, &cm.PostID, &cm.Author, &cm.Content, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
		return nil, err
	}
	return &cm, nil
}

func (r *PgCommentRepository) Create(ctx context.Context, postID int64, author, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	const q = `INSERT INTO comments (post_id, author, content) VALUES ($1,$2,$3) RETURNING id, created_at, updated_at`
	var cm Comment
	if err := r.db.QueryRow(ctx, q, postID, author, content).Scan(&cm.ID, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
		return nil, err
	}
	cm.PostID = postID
	cm.Author = author
	cm.Content = content
	return &cm, nil
}

// Update changes content only; author and post_id are immutable.
func (r *PgCommentRepository) Update(ctx context.Context, id int64, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	const q = `UPDATE comments SET content=$1, updated_at=now() WHERE id=$2 RETURNING id, post_id, author, created_at, updated_at`
	var cm Comment
	if err := r.db.QueryRow(ctx, q, content, id).Scan(&cm.ID, &cm.PostID, &cm.Author, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
		return nil, err
	}
	cm.Content = content
	return &cm, nil
}

func (r *PgCommentRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM comments WHERE id=$1`
	_, err := r.db.Exec(ctx, q, id)
	return err
}
