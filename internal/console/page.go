// Package console holds the state of the management page: which collection
// is shown, its loaded rows, the open modal, the form buffer and the
// transient banner. Every mutation goes through the services and is followed
// by a reload, so the page never edits rows in place.
package console

import (
	"context"
	"errors"
	"fmt"
	"go-admin-console/internal/columns"
	"go-admin-console/internal/data"
	"go-admin-console/internal/logger"
	"go-admin-console/internal/service"
	"go-admin-console/internal/stats"
	"go-admin-console/internal/table"
	"go-admin-console/internal/validation"
)

// Phase is the load state of the page.
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
	LoadError
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadError:
		return "load-error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Modal is the dialog currently open on the page.
type Modal string

const (
	ModalNone   Modal = ""
	ModalCreate Modal = "create"
	ModalEdit   Modal = "edit"
)

// BannerKind distinguishes success from error banners.
type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

// Banner is a transient message shown above the table.
type Banner struct {
	Kind    BannerKind
	Message string
}

// StatusAction is a post status change.
type StatusAction string

const (
	Publish StatusAction = "publish"
	Archive StatusAction = "archive"
	Restore StatusAction = "restore"
)

// ParseStatusAction reports whether s names a status action.
func ParseStatusAction(s string) (StatusAction, bool) {
	switch a := StatusAction(s); a {
	case Publish, Archive, Restore:
		return a, true
	default:
		return "", false
	}
}

const loadFailedMessage = "Failed to load data"

var (
	// ErrNoSelection is returned by Update when no record is being edited.
	ErrNoSelection = errors.New("no record selected")
	// ErrActionUnavailable is returned by Dispatch when the row does not
	// offer the requested action in its current state.
	ErrActionUnavailable = errors.New("action not available")
	// ErrWrongEntity is returned when a post-only operation runs on users.
	ErrWrongEntity = errors.New("operation not supported for this entity type")
)

// Options configures a Page.
type Options struct {
	ItemsPerPage int
	Language     string
	Logger       logger.Logger
}

// Page is the state record of one management page view.
// A Page is not safe for concurrent use.
type Page struct {
	users service.UserServicer
	posts service.PostServicer
	opts  Options
	log   logger.Logger

	Kind        data.EntityType
	Phase       Phase
	Users       []*data.User
	Posts       []*data.Post
	Modal       Modal
	Selected    int64
	Form        map[string]string
	FieldErrors map[string]string
	Banner      *Banner
}

// New returns an idle page showing posts.
func New(users service.UserServicer, posts service.PostServicer, opts Options) *Page {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Page{
		users: users,
		posts: posts,
		opts:  opts,
		log:   log,
		Kind:  data.EntityPost,
		Phase: Idle,
		Form:  map[string]string{},
	}
}

// SwitchEntity shows kind, closing any modal and clearing the form, and
// loads its rows.
func (p *Page) SwitchEntity(ctx context.Context, kind data.EntityType) error {
	p.Kind = kind
	p.CloseModal()
	return p.Reload(ctx)
}

// Reload fetches the current collection. On failure the previous rows are
// kept and an error banner is set. A load whose context was cancelled while
// in flight is dropped without touching the page.
func (p *Page) Reload(ctx context.Context) error {
	prev := p.Phase
	p.Phase = Loading

	var (
		users []*data.User
		posts []*data.Post
		err   error
	)
	if p.Kind == data.EntityUser {
		users, err = p.users.GetAll(ctx)
	} else {
		posts, err = p.posts.GetAll(ctx)
	}

	if ctx.Err() != nil {
		p.Phase = prev
		return ctx.Err()
	}
	if err != nil {
		p.Phase = LoadError
		p.log.Error(err, "Failed to load "+string(p.Kind))
		p.fail(err, loadFailedMessage, true)
		return err
	}

	if p.Kind == data.EntityUser {
		p.Users = users
	} else {
		p.Posts = posts
	}
	p.Phase = Loaded
	return nil
}

// OpenCreate opens the create modal with an empty form.
func (p *Page) OpenCreate() {
	p.Modal = ModalCreate
	p.Selected = 0
	p.Form = map[string]string{}
	p.FieldErrors = nil
}

// OpenEdit opens the edit modal for record id, filling the form from it.
func (p *Page) OpenEdit(id int64) error {
	form, ok := p.formFor(id)
	if !ok {
		return fmt.Errorf("%s %d: %w", p.Kind, id, service.ErrNotFound)
	}
	p.Modal = ModalEdit
	p.Selected = id
	p.Form = form
	p.FieldErrors = nil
	return nil
}

// CloseModal closes any modal and forgets the form buffer and selection.
func (p *Page) CloseModal() {
	p.Modal = ModalNone
	p.Selected = 0
	p.Form = map[string]string{}
	p.FieldErrors = nil
}

// DismissBanner hides the banner.
func (p *Page) DismissBanner() {
	p.Banner = nil
}

// Create submits form as a new record of the current kind.
func (p *Page) Create(ctx context.Context, form map[string]string) error {
	p.Modal = ModalCreate
	p.Form = form
	var err error
	if p.Kind == data.EntityUser {
		_, err = p.users.Create(ctx, userInput(form))
	} else {
		_, err = p.posts.Create(ctx, postInput(form))
	}
	if err != nil {
		return p.fail(err, "Create failed", false)
	}
	return p.succeed(ctx, p.noun()+" created")
}

// Update submits form over the selected record.
func (p *Page) Update(ctx context.Context, form map[string]string) error {
	if p.Selected == 0 {
		return p.fail(ErrNoSelection, "Update failed", false)
	}
	p.Modal = ModalEdit
	p.Form = form
	var err error
	if p.Kind == data.EntityUser {
		_, err = p.users.Update(ctx, p.Selected, userInput(form))
	} else {
		_, err = p.posts.Update(ctx, p.Selected, postInput(form))
	}
	if err != nil {
		return p.fail(err, "Update failed", false)
	}
	return p.succeed(ctx, p.noun()+" updated")
}

// Delete removes record id of the current kind.
func (p *Page) Delete(ctx context.Context, id int64) error {
	var err error
	if p.Kind == data.EntityUser {
		err = p.users.Delete(ctx, id)
	} else {
		err = p.posts.Delete(ctx, id)
	}
	if err != nil {
		return p.fail(err, "Delete failed", false)
	}
	return p.succeed(ctx, "Deleted")
}

// StatusChange publishes, archives or restores post id.
func (p *Page) StatusChange(ctx context.Context, id int64, action StatusAction) error {
	if p.Kind != data.EntityPost {
		return p.fail(ErrWrongEntity, "Action failed", false)
	}
	var (
		err  error
		done string
	)
	switch action {
	case Publish:
		err, done = p.posts.Publish(ctx, id), "Published"
	case Archive:
		err, done = p.posts.Archive(ctx, id), "Archived"
	case Restore:
		err, done = p.posts.Restore(ctx, id), "Restored"
	default:
		err = fmt.Errorf("unknown action %q", action)
	}
	if err != nil {
		return p.fail(err, "Action failed", false)
	}
	return p.succeed(ctx, done)
}

// Dispatch presses the button called name on row id, as rendered by the
// column registry. Buttons the row does not show in its current state are
// rejected with ErrActionUnavailable.
func (p *Page) Dispatch(ctx context.Context, id int64, name string) error {
	var (
		action columns.Action
		found  bool
	)
	if p.Kind == data.EntityUser {
		if u := p.user(id); u != nil {
			action, found = columns.FindAction(p.userColumns(ctx), u, name)
		}
	} else {
		if post := p.post(id); post != nil {
			action, found = columns.FindAction(p.postColumns(ctx), post, name)
		}
	}
	if !found {
		return p.fail(fmt.Errorf("%s on %s %d: %w", name, p.Kind, id, ErrActionUnavailable), "Action failed", false)
	}
	return action.Invoke()
}

// UserTable returns the table engine over the loaded users. Its action
// buttons call back into the page.
func (p *Page) UserTable(ctx context.Context) *table.Table[*data.User] {
	return table.New(p.Users, p.userColumns(ctx), table.Options[*data.User]{
		ItemsPerPage: p.opts.ItemsPerPage,
		Searchable:   true,
		SearchText:   (*data.User).SearchText,
		Language:     p.opts.Language,
	})
}

// PostTable returns the table engine over the loaded posts. Its action
// buttons call back into the page.
func (p *Page) PostTable(ctx context.Context) *table.Table[*data.Post] {
	return table.New(p.Posts, p.postColumns(ctx), table.Options[*data.Post]{
		ItemsPerPage: p.opts.ItemsPerPage,
		Searchable:   true,
		SearchText:   (*data.Post).SearchText,
		Language:     p.opts.Language,
	})
}

// Stats summarizes the loaded collection.
func (p *Page) Stats() []stats.Stat {
	return stats.Compute(p.Kind, p.Users, p.Posts)
}

func (p *Page) userColumns(ctx context.Context) []table.Column[*data.User] {
	return columns.Users(columns.UserActions{
		Edit:   p.OpenEdit,
		Delete: func(id int64) error { return p.Delete(ctx, id) },
	})
}

func (p *Page) postColumns(ctx context.Context) []table.Column[*data.Post] {
	return columns.Posts(columns.PostActions{
		Edit:    p.OpenEdit,
		Delete:  func(id int64) error { return p.Delete(ctx, id) },
		Publish: func(id int64) error { return p.StatusChange(ctx, id, Publish) },
		Archive: func(id int64) error { return p.StatusChange(ctx, id, Archive) },
		Restore: func(id int64) error { return p.StatusChange(ctx, id, Restore) },
	})
}

// succeed reloads after a mutation, closes the modal and shows message.
func (p *Page) succeed(ctx context.Context, message string) error {
	p.CloseModal()
	if err := p.Reload(ctx); err != nil {
		return err
	}
	p.Banner = &Banner{Kind: BannerSuccess, Message: message}
	return nil
}

// fail records err on the page. Validation errors land on the form fields;
// anything else becomes an error banner carrying the error text, or
// fallback when there is none. The loaded rows are left untouched.
func (p *Page) fail(err error, fallback string, useFallback bool) error {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		p.FieldErrors = fieldErrs
		return err
	}
	msg := err.Error()
	if useFallback || msg == "" {
		msg = fallback
	}
	p.Banner = &Banner{Kind: BannerError, Message: msg}
	return err
}

func (p *Page) noun() string {
	if p.Kind == data.EntityUser {
		return "User"
	}
	return "Post"
}

func (p *Page) user(id int64) *data.User {
	for _, u := range p.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (p *Page) post(id int64) *data.Post {
	for _, post := range p.Posts {
		if post.ID == id {
			return post
		}
	}
	return nil
}

func (p *Page) formFor(id int64) (map[string]string, bool) {
	if p.Kind == data.EntityUser {
		u := p.user(id)
		if u == nil {
			return nil, false
		}
		return map[string]string{
			"username": u.Username,
			"email":    u.Email,
			"role":     string(u.Role),
			"status":   string(u.Status),
		}, true
	}
	post := p.post(id)
	if post == nil {
		return nil, false
	}
	return map[string]string{
		"title":    post.Title,
		"content":  post.Content,
		"author":   post.Author,
		"category": string(post.Category),
		"status":   string(post.Status),
	}, true
}

func userInput(form map[string]string) validation.UserInput {
	return validation.UserInput{
		Username: form["username"],
		Email:    form["email"],
		Role:     form["role"],
		Status:   form["status"],
	}
}

func postInput(form map[string]string) validation.PostInput {
	return validation.PostInput{
		Title:    form["title"],
		Author:   form["author"],
		Category: form["category"],
		Content:  form["content"],
		Status:   form["status"],
	}
}
