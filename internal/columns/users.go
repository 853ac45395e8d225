package columns

import (
	"go-admin-console/internal/data"
	"go-admin-console/internal/table"
)

// UserActions are the callbacks the user table's buttons invoke.
type UserActions struct {
	Edit   func(id int64) error
	Delete func(id int64) error
}

var roleBadges = map[data.Role]Badge{
	data.RoleAdmin:     {Variant: "red", Label: "Admin"},
	data.RoleModerator: {Variant: "orange", Label: "Moderator"},
	data.RoleUser:      {Variant: "blue", Label: "User"},
}

var userStatusBadges = map[data.UserStatus]Badge{
	data.UserActive:    {Variant: "green", Label: "Active"},
	data.UserInactive:  {Variant: "gray", Label: "Inactive"},
	data.UserSuspended: {Variant: "red", Label: "Suspended"},
}

// Users returns the user table columns.
func Users(actions UserActions) []table.Column[*data.User] {
	return []table.Column[*data.User]{
		{
			Key: "id", Header: "ID",
			Value: func(u *data.User) any { return u.ID },
		},
		{
			Key: "username", Header: "Username",
			Value: func(u *data.User) any { return u.Username },
		},
		{
			Key: "email", Header: "Email",
			Value: func(u *data.User) any { return u.Email },
		},
		{
			Key: "role", Header: "Role",
			Value: func(u *data.User) any { return string(u.Role) },
			Render: func(u *data.User) any {
				if u.Role == "" {
					return text("")
				}
				if b, ok := roleBadges[u.Role]; ok {
					return Cell{Badge: &b}
				}
				return text(string(u.Role))
			},
		},
		{
			Key: "status", Header: "Status",
			Value: func(u *data.User) any { return string(u.Status) },
			Render: func(u *data.User) any {
				if u.Status == "" {
					return text("")
				}
				if b, ok := userStatusBadges[u.Status]; ok {
					return Cell{Badge: &b}
				}
				return text(string(u.Status))
			},
		},
		{
			Key: "createdAt", Header: "Created",
			Value: func(u *data.User) any { return u.CreatedAt.Format(data.DateFormat) },
		},
		{
			Key: "lastLogin", Header: "Last login",
			Value: func(u *data.User) any {
				if u.LastLogin == nil {
					return ""
				}
				return u.LastLogin.Format(data.DateFormat)
			},
			Render: func(u *data.User) any {
				if u.LastLogin == nil {
					return text("")
				}
				return text(u.LastLogin.Format(data.DateFormat))
			},
		},
		{
			Key: "actions", Header: "Manage", NoSort: true,
			Render: func(u *data.User) any {
				return Cell{Actions: []Action{
					{Name: "edit", Label: "Edit", Variant: "blue", invoke: bind(actions.Edit, u.ID)},
					{Name: "delete", Label: "Delete", Variant: "red", invoke: bind(actions.Delete, u.ID)},
				}}
			},
		},
	}
}
