package middleware

import (
	"go-admin-console/internal/auth"
	"go-admin-console/internal/logger"
	"go-admin-console/internal/session"
	"net/http"

	"github.com/casbin/casbin/v2"
)

// Authorizer creates a new middleware for authorization.
// It checks the user's permissions using Casbin based on session data.
// Requests without a logged-in subject are enforced as anonymousRole.
func Authorizer(e casbin.IEnforcer, sm session.Manager, anonymousRole string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := sm.GetString(r.Context(), session.SubjectKey)
			userInfo := &UserInfo{Subject: subject, Authenticated: subject != ""}

			enforced := subject
			if subject == "" {
				enforced = anonymousRole
				if anonymousRole != "" {
					userInfo.Roles = append([]string{anonymousRole}, auth.RolesFor(e, anonymousRole)...)
				}
			} else {
				userInfo.Roles = auth.RolesFor(e, subject)
			}
			r = r.WithContext(SetUserInfo(r.Context(), userInfo))

			allowed, err := e.Enforce(enforced, r.URL.Path, r.Method)
			if err != nil {
				log.Error(err, "Authorization check failed")
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				log.Debug("Forbidden " + r.Method + " " + r.URL.Path + " for " + enforced)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
