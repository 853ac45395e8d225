package auth

import (
	"fmt"
	"go-admin-console/internal/config"
	"go-admin-console/internal/logger"
	"slices"

	"github.com/casbin/casbin/v2"
)

// Console roles. Each role inherits every permission of the one below it.
const (
	RoleViewer    = "viewer"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// DefaultPolicies are the path permissions granted to each role.
var DefaultPolicies = [][]string{
	// Viewers can browse both tables and preview posts.
	{RoleViewer, "/", "GET"},
	{RoleViewer, "/users", "GET"},
	{RoleViewer, "/posts", "GET"},
	{RoleViewer, "/posts/:id", "GET"},

	// Moderators manage posts: create, edit, delete and status changes.
	{RoleModerator, "/posts", "POST"},
	{RoleModerator, "/posts/:id", "POST"},
	{RoleModerator, "/posts/:id/*", "POST"},

	// Admins also manage users.
	{RoleAdmin, "/users", "POST"},
	{RoleAdmin, "/users/:id", "POST"},
	{RoleAdmin, "/users/:id/*", "POST"},
}

var inheritance = [][2]string{
	{RoleModerator, RoleViewer},
	{RoleAdmin, RoleModerator},
}

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each default policy exists before adding it, making the operation idempotent
// and safe to run on every application start. Subjects listed in cfg are
// granted their role.
func SeedDefaultPolicies(e casbin.IEnforcer, cfg config.AuthConfig, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	for _, p := range DefaultPolicies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}
	for _, g := range inheritance {
		grant(e, log, g[0], g[1])
	}
	for _, subject := range cfg.Admins {
		grant(e, log, subject, RoleAdmin)
	}
	for _, subject := range cfg.Moderators {
		grant(e, log, subject, RoleModerator)
	}
	log.Info("Policy seeding complete.")
}

// EnsureRole gives subject the role fallback unless it already holds a role.
// It runs on login so that every authenticated subject can at least browse.
func EnsureRole(e casbin.IEnforcer, subject, fallback string) error {
	if fallback == "" {
		return nil
	}
	roles, err := e.GetRolesForUser(subject)
	if err != nil {
		return err
	}
	if len(roles) > 0 {
		return nil
	}
	_, err = e.AddRoleForUser(subject, fallback)
	return err
}

// RolesFor returns the roles subject holds, directly or by inheritance.
func RolesFor(e casbin.IEnforcer, subject string) []string {
	roles, err := e.GetImplicitRolesForUser(subject)
	if err != nil {
		return nil
	}
	slices.Sort(roles)
	return roles
}

func grant(e casbin.IEnforcer, log logger.Logger, subject, role string) {
	if has, _ := e.HasRoleForUser(subject, role); has {
		return
	}
	if _, err := e.AddRoleForUser(subject, role); err != nil {
		log.Error(err, fmt.Sprintf("Failed to add role %q -> %q", subject, role))
	}
}
