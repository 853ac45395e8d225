package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const postColumns = `id, title, content, author, category, status, views, created_at, updated_at`

// SQLPostRepository stores posts with sqlx.
type SQLPostRepository struct {
	db *sqlx.DB
}

// NewSQLPostRepository creates a new SQLPostRepository.
func NewSQLPostRepository(db *sqlx.DB) *SQLPostRepository {
	return &SQLPostRepository{db: db}
}

// GetAllPosts retrieves every post ordered by id.
func (r *SQLPostRepository) GetAllPosts(ctx context.Context) ([]*Post, error) {
	posts := []*Post{}
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY id`
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("failed to get all posts: %w", err)
	}
	return posts, nil
}

// GetPostByID retrieves a single post. It returns ErrNotFound when missing.
func (r *SQLPostRepository) GetPostByID(ctx context.Context, id int64) (*Post, error) {
	var post Post
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post with id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return &post, nil
}

// CreatePost inserts post and sets its ID.
func (r *SQLPostRepository) CreatePost(ctx context.Context, post *Post) error {
	query := `INSERT INTO posts (title, content, author, category, status, views, created_at, updated_at)
		VALUES (:title, :content, :author, :category, :status, :views, :created_at, :updated_at)`
	res, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get post id: %w", err)
	}
	post.ID = id
	return nil
}

// UpdatePost writes the editable fields of post.
func (r *SQLPostRepository) UpdatePost(ctx context.Context, post *Post) error {
	query := `UPDATE posts SET title = :title, content = :content, author = :author,
		category = :category, status = :status, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return expectOneRow(result, "post", post.ID)
}

// SetPostStatus changes only the status and update time of a post.
func (r *SQLPostRepository) SetPostStatus(ctx context.Context, id int64, status PostStatus, at time.Time) error {
	query := `UPDATE posts SET status = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, status, at, id)
	if err != nil {
		return fmt.Errorf("failed to set post status: %w", err)
	}
	return expectOneRow(result, "post", id)
}

// DeletePost removes a post by its ID.
func (r *SQLPostRepository) DeletePost(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return expectOneRow(result, "post", id)
}

// CountPosts returns the number of stored posts.
func (r *SQLPostRepository) CountPosts(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM posts`); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}
