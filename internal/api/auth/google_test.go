package auth

import (
	"testing"

	"brickshot/internal/dbtest"
	"brickshot/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreateGoogleUserCreates(t *testing.T) {
	db := dbtest.Open(t)

	u, err := findOrCreateGoogleUser(db, googleIdentity{
		Sub: "sub-1", Email: "Ana@Example.com", EmailVerified: true, Name: "Ana Lima", FamilyName: "Lima",
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "Ana Lima", u.Name)
	assert.Equal(t, users.ProviderGoogle, u.AuthProvider)

	again, err := findOrCreateGoogleUser(db, googleIdentity{Sub: "sub-1", Email: "other@example.com"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
}

func TestFindOrCreateGoogleUserLinksVerifiedEmail(t *testing.T) {
	db := dbtest.Open(t)
	local := dbtest.User(t, db, "rui")

	_, err := findOrCreateGoogleUser(db, googleIdentity{Sub: "sub-2", Email: "rui@example.com"})
	assert.Error(t, err)

	linked, err := findOrCreateGoogleUser(db, googleIdentity{Sub: "sub-2", Email: "rui@example.com", EmailVerified: true})
	require.NoError(t, err)
	assert.Equal(t, local.ID, linked.ID)
	require.NotNil(t, linked.GoogleSub)
	assert.Equal(t, "sub-2", *linked.GoogleSub)
	assert.Equal(t, users.ProviderLocal, linked.AuthProvider)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Empty(t, firstNonEmpty("", ""))
}
