// Copyright (c) 2026 Promptix. All rights reserved.

package sec

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestIsAdmin verifies the admin set over every known role and an unknown one.
*/
func TestIsAdmin(t *testing.T) {
	want := map[Role]bool{
		RoleExecutive:    true,
		RoleSystemsAdmin: true,
		RoleITManager:    true,
		RoleSales:        false,
		Role3DModeler:    false,
		RoleEmployee:     false,
		Role("root"):     false,
		Role(""):         false,
	}

	for role, expected := range want {
		t.Run(string(role), func(t *testing.T) {
			assert.Equal(t, expected, IsAdmin(role))
			assert.Equal(t, expected, role.IsAdmin())
		})
	}
}

/*
TestAllowed verifies the full role by action grid.
*/
func TestAllowed(t *testing.T) {
	allowed := map[Role]map[Action]bool{
		RoleExecutive:    {ActionManageTasks: true, ActionManageProjects: true, ActionManageBudget: true},
		RoleSystemsAdmin: {ActionManageTasks: true, ActionManageProjects: true},
		RoleITManager:    {ActionManageTasks: true, ActionManageProjects: true},
	}

	for _, role := range append(Roles, Role("contractor")) {
		for _, action := range Actions {
			t.Run(string(role)+"/"+string(action), func(t *testing.T) {
				assert.Equal(t, allowed[role][action], Allowed(role, action))
			})
		}
	}

	t.Run("unknown action denied even for executive", func(t *testing.T) {
		assert.False(t, Allowed(RoleExecutive, Action("delete_everything")))
	})
}

func TestManageBudgetIsExecutiveOnly(t *testing.T) {
	for _, role := range Roles {
		assert.Equal(t, role == RoleExecutive, Allowed(role, ActionManageBudget), role)
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("3d_modeler")
	require.NoError(t, err)
	assert.Equal(t, Role3DModeler, role)

	_, err = ParseRole("Executive")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("s3cret-pass", ""))
}

func TestSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(32)
	require.NoError(t, err)
	b, err := GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, HashToken(a), 64)
	assert.Equal(t, HashToken(a), HashToken(a))
}

/*
TestTokenService verifies the sign/verify round trip and rejection of tokens
signed by a different key or already expired.
*/
func TestTokenService(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	service := NewTokenServiceFromKeys(key, &key.PublicKey, "portal-test")

	token, expiresAt, err := service.GenerateAccessToken("u-1", "ana@promptix.io", "s-1", time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ana@promptix.io", claims.Email)
	assert.Equal(t, "s-1", claims.SessionID)

	t.Run("foreign key", func(t *testing.T) {
		other, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		foreign := NewTokenServiceFromKeys(other, &other.PublicKey, "portal-test")
		_, err = foreign.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		expired, _, err := service.GenerateAccessToken("u-1", "ana@promptix.io", "s-1", -time.Minute)
		require.NoError(t, err)
		_, err = service.VerifyToken(expired)
		assert.Error(t, err)
	})
}
