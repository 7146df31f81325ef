package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_UnmarshalJSON(t *testing.T) {
	t.Run("bare string form", func(t *testing.T) {
		var role Role
		err := json.Unmarshal([]byte(`"ADMIN"`), &role)
		require.NoError(t, err)
		assert.Equal(t, "ADMIN", role.Name())
	})

	t.Run("object form", func(t *testing.T) {
		var role Role
		err := json.Unmarshal([]byte(`{"name":"ADMIN"}`), &role)
		require.NoError(t, err)
		assert.Equal(t, "ADMIN", role.Name())
	})

	t.Run("both forms are equivalent", func(t *testing.T) {
		var fromString, fromObject Role
		require.NoError(t, json.Unmarshal([]byte(`"ROLE_ADMIN"`), &fromString))
		require.NoError(t, json.Unmarshal([]byte(`{"name":"ROLE_ADMIN"}`), &fromObject))
		assert.Equal(t, fromString, fromObject)
	})

	t.Run("rejects other shapes", func(t *testing.T) {
		var role Role
		err := json.Unmarshal([]byte(`42`), &role)
		require.Error(t, err)
	})

	t.Run("mixed forms in one user payload", func(t *testing.T) {
		var user User
		err := json.Unmarshal([]byte(`{"id":"u1","username":"an","roles":["ADMIN",{"name":"MODERATOR"}]}`), &user)
		require.NoError(t, err)
		assert.Equal(t, []string{"ADMIN", "MODERATOR"}, RoleNames(user.Roles))
	})
}

func TestRole_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(RoleNamed("LEARNER"))
	require.NoError(t, err)
	assert.Equal(t, `"LEARNER"`, string(data))
}

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"first and last", User{Username: "an", FirstName: "An", LastName: "Nguyen"}, "An Nguyen"},
		{"first only", User{Username: "an", FirstName: "An"}, "An"},
		{"last only", User{Username: "an", LastName: "Nguyen"}, "Nguyen"},
		{"falls back to username", User{Username: "an"}, "an"},
		{"whitespace collapses to username", User{Username: "an", FirstName: "  ", LastName: " "}, "an"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}

func TestUser_HasAnyRole(t *testing.T) {
	user := User{Roles: []Role{RoleNamed("LEARNER"), RoleNamed("CREATOR")}}

	assert.True(t, user.HasAnyRole("CREATOR"))
	assert.True(t, user.HasAnyRole("ADMIN", "CREATOR"))
	assert.False(t, user.HasAnyRole("ADMIN", "ROLE_ADMIN"))

	// Matching is case-sensitive on the stored value.
	assert.False(t, user.HasAnyRole("creator"))
}

func TestPlaceholderUser(t *testing.T) {
	user := PlaceholderUser()
	assert.Equal(t, "bypass", user.ID)
	assert.NotEmpty(t, user.DisplayName())
	assert.False(t, user.HasAnyRole("ADMIN", "ROLE_ADMIN"))
}
