package service

import (
	"bytes"
	"context"
	"fmt"
	"go-admin-console/internal/data"
	"go-admin-console/internal/validation"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// PostRepository defines the interface for database operations on posts.
type PostRepository interface {
	GetAllPosts(ctx context.Context) ([]*data.Post, error)
	GetPostByID(ctx context.Context, id int64) (*data.Post, error)
	CreatePost(ctx context.Context, post *data.Post) error
	UpdatePost(ctx context.Context, post *data.Post) error
	SetPostStatus(ctx context.Context, id int64, status data.PostStatus, at time.Time) error
	DeletePost(ctx context.Context, id int64) error
}

// PostServicer defines the interface for interacting with posts.
type PostServicer interface {
	GetAll(ctx context.Context) ([]*data.Post, error)
	Get(ctx context.Context, id int64) (*data.Post, error)
	Create(ctx context.Context, in validation.PostInput) (*data.Post, error)
	Update(ctx context.Context, id int64, in validation.PostInput) (*data.Post, error)
	Delete(ctx context.Context, id int64) error
	Publish(ctx context.Context, id int64) error
	Archive(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	Preview(ctx context.Context, id int64) (*data.Post, template.HTML, error)
}

// PostService provides business logic for managing posts.
type PostService struct {
	repo      PostRepository
	validator *validation.Validator
	sanitizer *bluemonday.Policy
	markdown  goldmark.Markdown
	list      snapshot
	now       func() time.Time
}

// NewPostService creates a new PostService. c may be nil to disable list caching.
func NewPostService(repo PostRepository, v *validation.Validator, c ListCache) *PostService {
	return &PostService{
		repo:      repo,
		validator: v,
		// UGCPolicy allows basic formatting like links, lists and emphasis
		// while stripping out dangerous HTML.
		sanitizer: bluemonday.UGCPolicy(),
		markdown:  goldmark.New(),
		list:      snapshot{cache: c, key: "posts:all"},
		now:       clock,
	}
}

// GetAll returns every post.
func (s *PostService) GetAll(ctx context.Context) ([]*data.Post, error) {
	var posts []*data.Post
	if s.list.load(&posts) {
		return posts, nil
	}
	posts, err := s.repo.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	s.list.store(posts)
	return posts, nil
}

// Get returns one post.
func (s *PostService) Get(ctx context.Context, id int64) (*data.Post, error) {
	return s.repo.GetPostByID(ctx, id)
}

// Create validates in and stores a new post. Status defaults to "draft".
// Content is stored as submitted; Preview sanitizes what it renders.
func (s *PostService) Create(ctx context.Context, in validation.PostInput) (*data.Post, error) {
	if in.Status == "" {
		in.Status = string(data.PostDraft)
	}
	if err := s.validator.Post(in); err != nil {
		return nil, err
	}

	post := &data.Post{
		Title:     in.Title,
		Content:   in.Content,
		Author:    in.Author,
		Category:  data.Category(in.Category),
		Status:    data.PostStatus(in.Status),
		CreatedAt: s.now(),
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	s.list.invalidate()
	return post, nil
}

// Update validates in and overwrites the editable fields of post id.
// An empty status keeps the current one.
func (s *PostService) Update(ctx context.Context, id int64, in validation.PostInput) (*data.Post, error) {
	if err := s.validator.Post(in); err != nil {
		return nil, err
	}
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post.Title = in.Title
	post.Content = in.Content
	post.Author = in.Author
	post.Category = data.Category(in.Category)
	if in.Status != "" {
		post.Status = data.PostStatus(in.Status)
	}
	post.UpdatedAt = &now

	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	s.list.invalidate()
	return post, nil
}

// Delete removes post id.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return err
	}
	s.list.invalidate()
	return nil
}

// Publish moves a draft to published.
func (s *PostService) Publish(ctx context.Context, id int64) error {
	return s.transition(ctx, id, data.PostDraft, data.PostPublished)
}

// Archive moves a published post to archived.
func (s *PostService) Archive(ctx context.Context, id int64) error {
	return s.transition(ctx, id, data.PostPublished, data.PostArchived)
}

// Restore moves an archived post back to published.
func (s *PostService) Restore(ctx context.Context, id int64) error {
	return s.transition(ctx, id, data.PostArchived, data.PostPublished)
}

func (s *PostService) transition(ctx context.Context, id int64, from, to data.PostStatus) error {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	if post.Status != from {
		return fmt.Errorf("cannot move post %d from %s to %s: %w", id, post.Status, to, ErrInvalidTransition)
	}
	if err := s.repo.SetPostStatus(ctx, id, to, s.now()); err != nil {
		return err
	}
	s.list.invalidate()
	return nil
}

// Preview renders the markdown content of post id as sanitized HTML.
func (s *PostService) Preview(ctx context.Context, id int64) (*data.Post, template.HTML, error) {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(post.Content), &buf); err != nil {
		return nil, "", fmt.Errorf("failed to render post %d: %w", id, err)
	}
	return post, template.HTML(s.sanitizer.SanitizeBytes(buf.Bytes())), nil
}
