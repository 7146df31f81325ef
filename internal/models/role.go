package models

import (
	"encoding/json"
	"fmt"
)

// Role is a user role as returned by the gateway. The gateway emits roles in
// two shapes, a bare string ("ADMIN") or an object ({"name": "ADMIN"}); both
// decode to the same canonical name so the rest of the client never sees the
// dual representation.
type Role struct {
	name string
}

// RoleNamed constructs a role from its canonical name.
func RoleNamed(name string) Role {
	return Role{name: name}
}

// Name returns the canonical role name. Comparisons are case-sensitive on
// the stored value.
func (r Role) Name() string {
	return r.name
}

func (r Role) String() string {
	return r.name
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		r.name = name
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("role must be a string or an object with a name: %w", err)
	}

	r.name = obj.Name
	return nil
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.name)
}

// RoleNames flattens roles to their canonical names, preserving order.
func RoleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name())
	}
	return names
}
