package session

import (
	"context"
	"database/sql"
	"fmt"
	"go-admin-console/internal/config"
	"net/http"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys shared by the handlers.
const (
	SubjectKey   = "user_subject"
	StateKey     = "oauth_state"
	FlashKindKey = "flash_kind"
	FlashKey     = "flash_message"
)

// Manager is an interface that abstracts the session management implementation.
// This allows for easier testing and dependency injection.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetString(ctx context.Context, key string) string
	PopString(ctx context.Context, key string) string
	RenewToken(ctx context.Context) error
	Destroy(ctx context.Context) error
	Remove(ctx context.Context, key string)
}

var _ Manager = (*scs.SessionManager)(nil)

// New returns a session manager persisting to db through the store matching
// driver ("sqlite3" or "mysql").
func New(cfg config.SessionConfig, driver string, db *sql.DB, secure bool) (*scs.SessionManager, error) {
	sm := scs.New()
	switch driver {
	case "sqlite3", "":
		sm.Store = sqlite3store.New(db)
	case "mysql":
		sm.Store = mysqlstore.New(db)
	default:
		return nil, fmt.Errorf("no session store for driver %q", driver)
	}
	lifetime := cfg.Lifetime
	if lifetime <= 0 {
		lifetime = 24
	}
	sm.Lifetime = time.Duration(lifetime) * time.Hour
	sm.Cookie.Name = "console_session"
	sm.Cookie.Persist = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = secure
	return sm, nil
}

// Flash stores a one-shot banner for the next page render.
func Flash(sm Manager, ctx context.Context, kind, message string) {
	sm.Put(ctx, FlashKindKey, kind)
	sm.Put(ctx, FlashKey, message)
}

// PopFlash returns and clears the pending banner. message is empty when
// there is none.
func PopFlash(sm Manager, ctx context.Context) (kind, message string) {
	return sm.PopString(ctx, FlashKindKey), sm.PopString(ctx, FlashKey)
}
