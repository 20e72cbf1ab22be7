package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/models"
)

type fakeMembers struct {
	members []models.TeamMember
	err     error
}

func (f *fakeMembers) GetMembers(ctx context.Context) ([]models.TeamMember, error) {
	return f.members, f.err
}

var testMembers = []models.TeamMember{
	{ID: "m1", Name: "Jane Doe", Email: "jane@acme.io", Password: "hunter2", Role: models.RoleAdmin},
	{ID: "m2", Name: "John Smith", Email: "john@acme.io", Password: "swordfish", Role: models.RoleMember},
}

func TestLoginSuccess(t *testing.T) {
	auth := NewAuthenticator(&fakeMembers{members: testMembers})

	member, err := auth.Login(context.Background(), "jane@acme.io", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "m1", member.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	auth := NewAuthenticator(&fakeMembers{members: testMembers})

	_, err := auth.Login(context.Background(), "jane@acme.io", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	auth := NewAuthenticator(&fakeMembers{members: testMembers})

	_, err := auth.Login(context.Background(), "nobody@acme.io", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginEmailIsCaseSensitive(t *testing.T) {
	auth := NewAuthenticator(&fakeMembers{members: testMembers})

	_, err := auth.Login(context.Background(), "Jane@acme.io", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginPropagatesSourceFailure(t *testing.T) {
	auth := NewAuthenticator(&fakeMembers{err: errors.New("store down")})

	_, err := auth.Login(context.Background(), "jane@acme.io", "hunter2")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveKnownMember(t *testing.T) {
	auth := NewAuthenticator(&fakeMembers{members: testMembers})

	member, err := auth.Resolve(context.Background(), "m2")
	require.NoError(t, err)
	assert.Equal(t, "john@acme.io", member.Email)
}

func TestResolveDeletedMemberExpiresSession(t *testing.T) {
	src := &fakeMembers{members: testMembers}
	auth := NewAuthenticator(src)

	// member disappears between login and the next request
	src.members = testMembers[:1]

	_, err := auth.Resolve(context.Background(), "m2")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := MintToken(secret, "m1", time.Hour)
	require.NoError(t, err)

	memberID, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "m1", memberID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := MintToken([]byte("right"), "m1", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("wrong"), token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	secret := []byte("test-secret")

	// expired beyond the validation leeway
	token, err := MintToken(secret, "m1", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(secret, token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken([]byte("test-secret"), "not-a-token")
	assert.Error(t, err)
}
