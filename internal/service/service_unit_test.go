//go:build unit

package service

import (
	"context"
	"errors"
	"fmt"
	"go-admin-console/internal/cache"
	"go-admin-console/internal/config"
	"go-admin-console/internal/data"
	"go-admin-console/internal/validation"
	"strings"
	"testing"
	"time"
)

// newTestCache creates a new in-memory cache for testing.
func newTestCache(t *testing.T) (*cache.Cache, func()) {
	t.Helper()
	c, err := cache.New(config.CacheConfig{FilePath: "file::memory:", TTLSeconds: 60})
	if err != nil {
		t.Fatalf("failed to create test cache: %v", err)
	}
	teardown := func() {
		c.Close()
	}
	return c, teardown
}

var fixedNow = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

// mockUserRepository is a mock implementation of the UserRepository interface.
type mockUserRepository struct {
	errToReturn    error
	users          map[int64]*data.User
	nextID         int64
	getAllCalled   int
	createCalled   bool
	updateCalled   bool
	deleteCalled   bool
	lastUserPassed *data.User
}

var _ UserRepository = (*mockUserRepository)(nil)

func newMockUserRepository() *mockUserRepository {
	m := &mockUserRepository{users: map[int64]*data.User{}, nextID: 100}
	for _, u := range data.SampleUsers() {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepository) GetAllUsers(ctx context.Context) ([]*data.User, error) {
	m.getAllCalled++
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	var out []*data.User
	for id := int64(1); id <= m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) GetUserByID(ctx context.Context, id int64) (*data.User, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, data.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user *data.User) error {
	m.createCalled = true
	m.lastUserPassed = user
	if m.errToReturn != nil {
		return m.errToReturn
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) UpdateUser(ctx context.Context, user *data.User) error {
	m.updateCalled = true
	m.lastUserPassed = user
	if m.errToReturn != nil {
		return m.errToReturn
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) DeleteUser(ctx context.Context, id int64) error {
	m.deleteCalled = true
	if m.errToReturn != nil {
		return m.errToReturn
	}
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, data.ErrNotFound)
	}
	delete(m.users, id)
	return nil
}

// mockPostRepository is a mock implementation of the PostRepository interface.
type mockPostRepository struct {
	errToReturn    error
	posts          map[int64]*data.Post
	nextID         int64
	setStatusCalls int
	lastStatus     data.PostStatus
	lastPostPassed *data.Post
}

var _ PostRepository = (*mockPostRepository)(nil)

func newMockPostRepository() *mockPostRepository {
	m := &mockPostRepository{posts: map[int64]*data.Post{}, nextID: 100}
	for _, p := range data.SamplePosts() {
		m.posts[p.ID] = p
	}
	return m
}

func (m *mockPostRepository) GetAllPosts(ctx context.Context) ([]*data.Post, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	var out []*data.Post
	for id := int64(1); id <= m.nextID; id++ {
		if p, ok := m.posts[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPostRepository) GetPostByID(ctx context.Context, id int64) (*data.Post, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", id, data.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (m *mockPostRepository) CreatePost(ctx context.Context, post *data.Post) error {
	m.lastPostPassed = post
	if m.errToReturn != nil {
		return m.errToReturn
	}
	m.nextID++
	post.ID = m.nextID
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostRepository) UpdatePost(ctx context.Context, post *data.Post) error {
	m.lastPostPassed = post
	if m.errToReturn != nil {
		return m.errToReturn
	}
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostRepository) SetPostStatus(ctx context.Context, id int64, status data.PostStatus, at time.Time) error {
	m.setStatusCalls++
	m.lastStatus = status
	if m.errToReturn != nil {
		return m.errToReturn
	}
	p := m.posts[id]
	p.Status = status
	p.UpdatedAt = &at
	return nil
}

func (m *mockPostRepository) DeletePost(ctx context.Context, id int64) error {
	if m.errToReturn != nil {
		return m.errToReturn
	}
	delete(m.posts, id)
	return nil
}

func newUserService(repo *mockUserRepository, c ListCache) *UserService {
	s := NewUserService(repo, validation.New(), c)
	s.now = func() time.Time { return fixedNow }
	return s
}

func newPostService(repo *mockPostRepository, c ListCache) *PostService {
	s := NewPostService(repo, validation.New(), c)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestUserService_Create(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		repo := newMockUserRepository()
		svc := newUserService(repo, nil)

		user, err := svc.Create(context.Background(), validation.UserInput{Username: "new_user", Email: "new@example.com"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if user.Role != data.RoleUser || user.Status != data.UserActive {
			t.Errorf("expected defaults user/active, got %s/%s", user.Role, user.Status)
		}
		if !user.CreatedAt.Equal(fixedNow) {
			t.Errorf("expected created at %v, got %v", fixedNow, user.CreatedAt)
		}
	})

	t.Run("validation failure skips repository", func(t *testing.T) {
		repo := newMockUserRepository()
		svc := newUserService(repo, nil)

		_, err := svc.Create(context.Background(), validation.UserInput{Username: "root", Email: "root@example.com"})
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			t.Fatalf("expected validation errors, got %v", err)
		}
		if _, ok := verrs["username"]; !ok {
			t.Errorf("expected a username error, got %v", verrs)
		}
		if repo.createCalled {
			t.Error("repository should not be called on invalid input")
		}
	})

	t.Run("repository error", func(t *testing.T) {
		repo := newMockUserRepository()
		repo.errToReturn = errors.New("db down")
		svc := newUserService(repo, nil)

		if _, err := svc.Create(context.Background(), validation.UserInput{Username: "new_user", Email: "n@example.com"}); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestUserService_UpdateAndDelete(t *testing.T) {
	repo := newMockUserRepository()
	svc := newUserService(repo, nil)
	ctx := context.Background()

	in := validation.UserInput{Username: "bob_w", Email: "bob@example.com", Role: "moderator", Status: "active"}
	user, err := svc.Update(ctx, 3, in)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if user.Username != "bob_w" || user.Role != data.RoleModerator {
		t.Errorf("unexpected user after update: %+v", user)
	}
	if user.LastLogin == nil {
		t.Error("update must keep last login")
	}

	if _, err := svc.Update(ctx, 999, in); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := svc.Delete(ctx, 3); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(ctx, 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_GetAllUsesCache(t *testing.T) {
	testCache, teardown := newTestCache(t)
	defer teardown()
	repo := newMockUserRepository()
	svc := newUserService(repo, testCache)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		users, err := svc.GetAll(ctx)
		if err != nil {
			t.Fatalf("GetAll failed: %v", err)
		}
		if len(users) != 5 {
			t.Fatalf("expected 5 users, got %d", len(users))
		}
	}
	if repo.getAllCalled != 1 {
		t.Errorf("expected one repository read, got %d", repo.getAllCalled)
	}

	if _, err := svc.Create(ctx, validation.UserInput{Username: "fresh", Email: "fresh@example.com"}); err != nil {
		t.Fatal(err)
	}
	users, _ := svc.GetAll(ctx)
	if len(users) != 6 {
		t.Errorf("expected cache invalidation to expose 6 users, got %d", len(users))
	}
	if repo.getAllCalled != 2 {
		t.Errorf("expected a second repository read, got %d", repo.getAllCalled)
	}
}

func TestPostService_Create(t *testing.T) {
	repo := newMockPostRepository()
	svc := newPostService(repo, nil)

	in := validation.PostInput{
		Title:    "A brand new post",
		Author:   "me",
		Category: "design",
		Content:  `hello <script>alert("x")</script>`,
	}
	post, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if post.Status != data.PostDraft {
		t.Errorf("expected default status draft, got %s", post.Status)
	}
	if post.Content != in.Content {
		t.Errorf("expected content stored as submitted, got %q", post.Content)
	}
	if post.Views != 0 {
		t.Errorf("expected zero views, got %d", post.Views)
	}
}

func TestPostService_Update(t *testing.T) {
	repo := newMockPostRepository()
	svc := newPostService(repo, nil)

	in := validation.PostInput{Title: "Renamed post", Author: "Kim Dev", Category: "development"}
	post, err := svc.Update(context.Background(), 1, in)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if post.Status != data.PostPublished {
		t.Errorf("empty status should keep published, got %s", post.Status)
	}
	if post.UpdatedAt == nil || !post.UpdatedAt.Equal(fixedNow) {
		t.Errorf("expected updated at %v, got %v", fixedNow, post.UpdatedAt)
	}
	if post.Views != 1523 {
		t.Errorf("update must keep views, got %d", post.Views)
	}
}

func TestPostService_Transitions(t *testing.T) {
	testCases := []struct {
		name    string
		id      int64
		action  func(*PostService, context.Context, int64) error
		want    data.PostStatus
		wantErr error
	}{
		{"publish draft", 3, (*PostService).Publish, data.PostPublished, nil},
		{"archive published", 1, (*PostService).Archive, data.PostArchived, nil},
		{"restore archived", 5, (*PostService).Restore, data.PostPublished, nil},
		{"publish published", 1, (*PostService).Publish, "", ErrInvalidTransition},
		{"archive draft", 3, (*PostService).Archive, "", ErrInvalidTransition},
		{"restore draft", 3, (*PostService).Restore, "", ErrInvalidTransition},
		{"missing post", 42, (*PostService).Publish, "", ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMockPostRepository()
			svc := newPostService(repo, nil)

			err := tc.action(svc, context.Background(), tc.id)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if repo.setStatusCalls != 0 {
					t.Error("status must not change on a rejected transition")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.lastStatus != tc.want {
				t.Errorf("expected status %s, got %s", tc.want, repo.lastStatus)
			}
		})
	}
}

func TestPostService_Preview(t *testing.T) {
	repo := newMockPostRepository()
	repo.posts[1].Content = "# Heading\n\nSome *text* <img src=x onerror=alert(1)>"
	svc := newPostService(repo, nil)

	post, html, err := svc.Preview(context.Background(), 1)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if post.ID != 1 {
		t.Errorf("expected post 1, got %d", post.ID)
	}
	if !strings.Contains(string(html), "<h1") || !strings.Contains(string(html), "<em>text</em>") {
		t.Errorf("expected rendered markdown, got %q", html)
	}
	if strings.Contains(string(html), "onerror") {
		t.Errorf("expected sanitized output, got %q", html)
	}
}

func TestPostService_ContentRoundTrip(t *testing.T) {
	repo := newMockPostRepository()
	svc := newPostService(repo, nil)
	ctx := context.Background()

	content := "> quoted & fine\n\n```\nif a < b {}\n```"
	in := validation.PostInput{Title: "Markdown escapes", Author: "me", Category: "development", Content: content}
	created, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Content != content {
		t.Errorf("want content %q; got %q", content, got.Content)
	}

	_, html, err := svc.Preview(ctx, created.ID)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if !strings.Contains(string(html), "<blockquote>") {
		t.Errorf("expected a blockquote, got %q", html)
	}
	if !strings.Contains(string(html), "a &lt; b") {
		t.Errorf("expected the code block escaped once, got %q", html)
	}

	in.Content = "> edited & saved"
	updated, err := svc.Update(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Content != "> edited & saved" {
		t.Errorf("want updated content stored as submitted; got %q", updated.Content)
	}
}
