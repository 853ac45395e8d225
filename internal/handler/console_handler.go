package handler

import (
	"errors"
	"fmt"
	"go-admin-console/internal/auth"
	"go-admin-console/internal/console"
	"go-admin-console/internal/data"
	"go-admin-console/internal/logger"
	"go-admin-console/internal/middleware"
	"go-admin-console/internal/service"
	"go-admin-console/internal/session"
	"go-admin-console/internal/table"
	"go-admin-console/internal/validation"
	"go-admin-console/internal/view"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

var formFields = map[data.EntityType][]string{
	data.EntityUser: {"username", "email", "role", "status"},
	data.EntityPost: {"title", "author", "category", "status", "content"},
}

// ConsoleOptions configures the console pages.
type ConsoleOptions struct {
	ItemsPerPage int
	Language     string
	LoginEnabled bool
}

// ConsoleHandler holds the dependencies for the management page handlers.
type ConsoleHandler struct {
	users    service.UserServicer
	posts    service.PostServicer
	sessions session.Manager
	view     *view.View
	log      logger.Logger
	opts     ConsoleOptions
}

// NewConsoleHandler creates a new ConsoleHandler with the given dependencies.
func NewConsoleHandler(us service.UserServicer, ps service.PostServicer, sm session.Manager, v *view.View, log logger.Logger, opts ConsoleOptions) *ConsoleHandler {
	return &ConsoleHandler{
		users:    us,
		posts:    ps,
		sessions: sm,
		view:     v,
		log:      log,
		opts:     opts,
	}
}

// listHandler renders the table of one entity kind. The q, sort, dir and
// page parameters carry the table state; modal and id open a dialog.
func (h *ConsoleHandler) listHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, appErr := h.loadPage(r)
	if appErr != nil {
		return appErr
	}

	if kind, msg := session.PopFlash(h.sessions, r.Context()); msg != "" && page.Banner == nil {
		page.Banner = &console.Banner{Kind: console.BannerKind(kind), Message: msg}
	}

	q := r.URL.Query()
	switch q.Get("modal") {
	case string(console.ModalCreate):
		page.OpenCreate()
	case string(console.ModalEdit):
		id, err := strconv.ParseInt(q.Get("id"), 10, 64)
		if err != nil {
			return &middleware.AppError{Error: err, Message: "Invalid id", Code: http.StatusBadRequest}
		}
		if err := page.OpenEdit(id); err != nil {
			return &middleware.AppError{Error: err, Message: "Record not found", Code: http.StatusNotFound}
		}
	}

	return h.render(w, r, page, view.StateFromQuery(q), http.StatusOK)
}

// createHandler stores a new record from the submitted form.
func (h *ConsoleHandler) createHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, appErr := h.loadPage(r)
	if appErr != nil {
		return appErr
	}
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid form", Code: http.StatusBadRequest}
	}
	page.OpenCreate()
	return h.afterSubmit(w, r, page, page.Create(r.Context(), formValues(r, page.Kind)))
}

// updateHandler overwrites record {id} from the submitted form.
func (h *ConsoleHandler) updateHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, appErr := h.loadPage(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid form", Code: http.StatusBadRequest}
	}
	if err := page.OpenEdit(id); err != nil {
		return &middleware.AppError{Error: err, Message: "Record not found", Code: http.StatusNotFound}
	}
	return h.afterSubmit(w, r, page, page.Update(r.Context(), formValues(r, page.Kind)))
}

// actionHandler presses a row button: delete, or for posts publish, archive
// and restore. Buttons the row does not offer in its current state are
// rejected with 409.
func (h *ConsoleHandler) actionHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, appErr := h.loadPage(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	action := chi.URLParam(r, "action")
	if _, ok := console.ParseStatusAction(action); action != "delete" && !ok {
		return &middleware.AppError{Error: fmt.Errorf("unknown action %q", action), Message: "Page not found", Code: http.StatusNotFound}
	}
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid form", Code: http.StatusBadRequest}
	}

	err := page.Dispatch(r.Context(), id, action)
	if errors.Is(err, console.ErrActionUnavailable) {
		return &middleware.AppError{Error: err, Message: "Action not available", Code: http.StatusConflict}
	}
	if err != nil {
		h.log.Error(err, fmt.Sprintf("Failed to %s %s %d", action, page.Kind, id))
	}
	h.flash(r, page)
	h.redirectBack(w, r, page.Kind)
	return nil
}

// previewHandler renders a post's content as sanitized HTML. Only posts
// have a preview.
func (h *ConsoleHandler) previewHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if kind, _ := data.ParseEntityType(chi.URLParam(r, "kind")); kind != data.EntityPost {
		return &middleware.AppError{Error: fmt.Errorf("no preview for %q", chi.URLParam(r, "kind")), Message: "Page not found", Code: http.StatusNotFound}
	}
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	post, html, err := h.posts.Preview(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
	}
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post", Code: http.StatusInternalServerError}
	}

	vars := map[string]interface{}{
		"Post":     post,
		"HTML":     html,
		"UserInfo": middleware.GetUserInfo(r.Context()),
		"CanLogin": h.opts.LoginEnabled,
	}
	if err := h.view.Render(w, r, "post.html", vars); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post", Code: http.StatusInternalServerError}
	}
	return nil
}

// loadPage builds a page for the {kind} URL parameter and loads its rows.
// A failed load is not an error here: the page carries the banner.
func (h *ConsoleHandler) loadPage(r *http.Request) (*console.Page, *middleware.AppError) {
	kind, ok := data.ParseEntityType(chi.URLParam(r, "kind"))
	if !ok {
		return nil, &middleware.AppError{Error: fmt.Errorf("unknown entity %q", chi.URLParam(r, "kind")), Message: "Page not found", Code: http.StatusNotFound}
	}
	page := console.New(h.users, h.posts, console.Options{
		ItemsPerPage: h.opts.ItemsPerPage,
		Language:     h.opts.Language,
		Logger:       h.log,
	})
	_ = page.SwitchEntity(r.Context(), kind)
	return page, nil
}

// afterSubmit finishes a form post. Field errors re-render the open modal;
// anything else is flashed and redirected back to the table.
func (h *ConsoleHandler) afterSubmit(w http.ResponseWriter, r *http.Request, page *console.Page, err error) *middleware.AppError {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		state, _ := url.ParseQuery(r.PostFormValue("state"))
		return h.render(w, r, page, view.StateFromQuery(state), http.StatusUnprocessableEntity)
	}
	if err != nil {
		h.log.Error(err, fmt.Sprintf("Failed to save %s", page.Kind))
	}
	h.flash(r, page)
	h.redirectBack(w, r, page.Kind)
	return nil
}

func (h *ConsoleHandler) flash(r *http.Request, page *console.Page) {
	if page.Banner != nil {
		session.Flash(h.sessions, r.Context(), string(page.Banner.Kind), page.Banner.Message)
	}
}

// redirectBack sends the client to the table it came from, keeping the
// table state posted in the hidden state field.
func (h *ConsoleHandler) redirectBack(w http.ResponseWriter, r *http.Request, kind data.EntityType) {
	posted, _ := url.ParseQuery(r.PostFormValue("state"))
	target := view.Link("/"+string(kind), view.StateFromQuery(posted), keepParams(posted.Get("basic") == "true"))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *ConsoleHandler) render(w http.ResponseWriter, r *http.Request, page *console.Page, state table.State, code int) *middleware.AppError {
	basic := view.IsBasicMode(r.Context())
	keep := keepParams(basic)
	path := "/" + string(page.Kind)

	var grid view.Grid
	if page.Kind == data.EntityUser {
		t := page.UserTable(r.Context())
		t.Restore(state)
		state = t.State()
		grid = view.NewGrid(t, func(u *data.User) int64 { return u.ID }, path, keep)
	} else {
		t := page.PostTable(r.Context())
		t.Restore(state)
		state = t.State()
		grid = view.NewGrid(t, func(p *data.Post) int64 { return p.ID }, path, keep)
	}

	userInfo := middleware.GetUserInfo(r.Context())
	formAction := path
	if page.Modal == console.ModalEdit {
		formAction = fmt.Sprintf("%s/%d", path, page.Selected)
	}

	vars := map[string]interface{}{
		"Kind":        string(page.Kind),
		"Grid":        grid,
		"Stats":       page.Stats(),
		"Banner":      page.Banner,
		"Modal":       string(page.Modal),
		"Form":        page.Form,
		"FieldErrors": map[string]string(page.FieldErrors),
		"State":       strings.TrimPrefix(view.Link("", state, keep), "?"),
		"CloseHref":   view.Link(path, state, keep),
		"DismissHref": view.Link(path, state, keep),
		"CreateHref":  view.Link(path, state, withParam(keep, "modal", string(console.ModalCreate))),
		"EditHref":    view.Link(path, state, withParam(keep, "modal", string(console.ModalEdit))) + "&id=",
		"FormAction":  formAction,
		"CanWrite":    canWrite(userInfo, page.Kind),
		"UserInfo":    userInfo,
		"CanLogin":    h.opts.LoginEnabled,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.Header.Get("HX-Request") == "true" && !basic && page.Modal == console.ModalNone {
		w.WriteHeader(code)
		if err := h.view.RenderPartial(w, r, "console.html", "panel", vars); err != nil {
			h.log.Error(err, "Failed to render table partial")
		}
		return nil
	}

	w.WriteHeader(code)
	if err := h.view.Render(w, r, "console.html", vars); err != nil {
		h.log.Error(err, "Failed to render console page")
	}
	return nil
}

func canWrite(u *middleware.UserInfo, kind data.EntityType) bool {
	if kind == data.EntityUser {
		return u.HasRole(auth.RoleAdmin)
	}
	return u.HasRole(auth.RoleModerator)
}

func formValues(r *http.Request, kind data.EntityType) map[string]string {
	form := make(map[string]string, len(formFields[kind]))
	for _, f := range formFields[kind] {
		form[f] = strings.TrimSpace(r.PostFormValue(f))
	}
	// Content keeps its whitespace.
	if kind == data.EntityPost {
		form["content"] = r.PostFormValue("content")
	}
	return form
}

func idParam(r *http.Request) (int64, *middleware.AppError) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, &middleware.AppError{Error: fmt.Errorf("invalid id %q", chi.URLParam(r, "id")), Message: "Page not found", Code: http.StatusNotFound}
	}
	return id, nil
}

func keepParams(basic bool) url.Values {
	keep := url.Values{}
	if basic {
		keep.Set("basic", "true")
	}
	return keep
}

func withParam(v url.Values, key, value string) url.Values {
	out := url.Values{}
	for k, vs := range v {
		out[k] = vs
	}
	out.Set(key, value)
	return out
}
