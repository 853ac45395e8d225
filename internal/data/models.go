package data

import (
	"strconv"
	"time"
)

// DateFormat is how dates are shown and searched in the console.
const DateFormat = "2006-01-02"

// EntityType names one of the two managed collections.
type EntityType string

const (
	EntityUser EntityType = "users"
	EntityPost EntityType = "posts"
)

// ParseEntityType returns the entity type for s, accepting singular forms.
func ParseEntityType(s string) (EntityType, bool) {
	switch s {
	case "users", "user":
		return EntityUser, true
	case "posts", "post":
		return EntityPost, true
	default:
		return "", false
	}
}

// Role is a console user's role.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// UserStatus is the account status of a user.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

// Category is the topic of a post.
type Category string

const (
	CategoryDevelopment   Category = "development"
	CategoryDesign        Category = "design"
	CategoryAccessibility Category = "accessibility"
)

// PostStatus is the publication status of a post.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
	PostArchived  PostStatus = "archived"
)

// User represents a managed user account.
type User struct {
	ID        int64      `db:"id"`
	Username  string     `db:"username"`
	Email     string     `db:"email"`
	Role      Role       `db:"role"`
	Status    UserStatus `db:"status"`
	CreatedAt time.Time  `db:"created_at"`
	LastLogin *time.Time `db:"last_login"`
}

// SearchText returns the string form of every field.
func (u *User) SearchText() []string {
	return []string{
		strconv.FormatInt(u.ID, 10),
		u.Username,
		u.Email,
		string(u.Role),
		string(u.Status),
		u.CreatedAt.Format(DateFormat),
		formatOptionalDate(u.LastLogin),
	}
}

// Post represents a managed post.
type Post struct {
	ID        int64      `db:"id"`
	Title     string     `db:"title"`
	Content   string     `db:"content"`
	Author    string     `db:"author"`
	Category  Category   `db:"category"`
	Status    PostStatus `db:"status"`
	Views     int64      `db:"views"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// SearchText returns the string form of every field.
func (p *Post) SearchText() []string {
	return []string{
		strconv.FormatInt(p.ID, 10),
		p.Title,
		p.Content,
		p.Author,
		string(p.Category),
		string(p.Status),
		strconv.FormatInt(p.Views, 10),
		p.CreatedAt.Format(DateFormat),
		formatOptionalDate(p.UpdatedAt),
	}
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateFormat)
}
