package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_JSONOmitsSecrets(t *testing.T) {
	u := &User{ID: "1", Username: "ab1", Password: "hash", RefreshToken: "rt"}

	b, err := json.Marshal(u)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "ab1", m["username"])
	assert.NotContains(t, m, "password")
	assert.NotContains(t, m, "refreshToken")
	assert.NotContains(t, m, "Password")
}

func TestUser_Sanitized(t *testing.T) {
	u := &User{ID: "1", Password: "hash", RefreshToken: "rt", Avatar: "a"}

	s := u.Sanitized()
	assert.Empty(t, s.Password)
	assert.Empty(t, s.RefreshToken)
	assert.Equal(t, "a", s.Avatar)
	// original untouched
	assert.Equal(t, "hash", u.Password)

	var nilUser *User
	assert.Nil(t, nilUser.Sanitized())
}
