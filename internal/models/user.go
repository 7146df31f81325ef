package models

import (
	"slices"
	"strings"
)

// User is the identity returned by the gateway's current-user endpoint.
// Avatar, level and points are cosmetic profile fields; they carry no
// security meaning.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	DOB       string `json:"dob,omitempty"`
	Roles     []Role `json:"roles,omitempty"`

	Avatar string `json:"avatar,omitempty"`
	Level  int    `json:"level,omitempty"`
	Points int    `json:"points,omitempty"`
}

// DisplayName is first plus last name, falling back to the username when
// neither is set.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Username
	}
	return name
}

// HasAnyRole reports whether the user holds at least one of the accepted
// role names. Matching is case-sensitive.
func (u *User) HasAnyRole(accepted ...string) bool {
	for _, role := range u.Roles {
		if slices.Contains(accepted, role.Name()) {
			return true
		}
	}
	return false
}

// PlaceholderUser is the fixed local identity used in bypass mode. It is
// never fetched from the gateway.
func PlaceholderUser() *User {
	return &User{
		ID:        "bypass",
		Username:  "explorer",
		FirstName: "Guest",
		LastName:  "Explorer",
		Email:     "explorer@edufin.local",
		Roles:     []Role{RoleNamed("LEARNER")},
		Level:     1,
	}
}

// Registration is the payload for creating a new account.
type Registration struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	DOB       string `json:"dob,omitempty"`
	Phone     string `json:"phone,omitempty"`
}
