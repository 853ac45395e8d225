package data

import (
	"context"
	"fmt"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

// SampleUsers returns the users an empty database is seeded with.
func SampleUsers() []*User {
	return []*User{
		{ID: 1, Username: "john_doe", Email: "john@example.com", Role: RoleAdmin, Status: UserActive, CreatedAt: date("2024-01-15"), LastLogin: datePtr("2024-03-20")},
		{ID: 2, Username: "jane_smith", Email: "jane@example.com", Role: RoleModerator, Status: UserActive, CreatedAt: date("2024-02-10"), LastLogin: datePtr("2024-03-19")},
		{ID: 3, Username: "bob_wilson", Email: "bob@example.com", Role: RoleUser, Status: UserInactive, CreatedAt: date("2024-01-20"), LastLogin: datePtr("2024-02-15")},
		{ID: 4, Username: "alice_brown", Email: "alice@example.com", Role: RoleUser, Status: UserActive, CreatedAt: date("2024-03-01"), LastLogin: datePtr("2024-03-18")},
		{ID: 5, Username: "charlie_davis", Email: "charlie@example.com", Role: RoleUser, Status: UserSuspended, CreatedAt: date("2024-02-20"), LastLogin: datePtr("2024-03-10")},
	}
}

// SamplePosts returns the posts an empty database is seeded with.
func SamplePosts() []*Post {
	return []*Post{
		{ID: 1, Title: "What's new in React 19", Content: "A tour of the main React 19 features.", Author: "Kim Dev", Category: CategoryDevelopment, Status: PostPublished, Views: 1523, CreatedAt: date("2024-03-15"), UpdatedAt: datePtr("2024-03-16")},
		{ID: 2, Title: "Building a design system", Content: "How to build an efficient design system.", Author: "Park Design", Category: CategoryDesign, Status: PostPublished, Views: 892, CreatedAt: date("2024-03-10"), UpdatedAt: datePtr("2024-03-11")},
		{ID: 3, Title: "Inclusive web guide", Content: "Making the web usable for everyone.", Author: "Lee Inclusive", Category: CategoryAccessibility, Status: PostDraft, Views: 234, CreatedAt: date("2024-03-18")},
		{ID: 4, Title: "Advanced TypeScript techniques", Content: "Improving type safety with TypeScript.", Author: "Choi Types", Category: CategoryDevelopment, Status: PostPublished, Views: 2341, CreatedAt: date("2024-03-12"), UpdatedAt: datePtr("2024-03-13")},
		{ID: 5, Title: "Component architecture patterns", Content: "Designing reusable components.", Author: "Jung Arch", Category: CategoryDevelopment, Status: PostArchived, Views: 567, CreatedAt: date("2024-02-28"), UpdatedAt: datePtr("2024-03-01")},
	}
}

// Seed fills empty user and post tables with the sample records.
// Tables that already hold rows are left alone.
func Seed(ctx context.Context, users *SQLUserRepository, posts *SQLPostRepository) error {
	n, err := users.CountUsers(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		for _, u := range SampleUsers() {
			if err := users.CreateUser(ctx, u); err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.Username, err)
			}
		}
	}

	n, err = posts.CountPosts(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		for _, p := range SamplePosts() {
			if err := posts.CreatePost(ctx, p); err != nil {
				return fmt.Errorf("failed to seed post %q: %w", p.Title, err)
			}
		}
	}
	return nil
}
