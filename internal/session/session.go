// Package session resolves and carries "who is using this client". Login is a
// lookup against the member collection (behavior preserved from the system
// this replaces: exact email match, plaintext password compare). The resolved
// identity is persisted as a signed cookie for the rest of the browser
// session and re-validated against the collection on every request, so an
// identity never survives its member's deletion.
package session

import (
	"context"
	"errors"

	"taskflow/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionExpired     = errors.New("session no longer valid")
)

// MemberSource is the slice of the gateway the authenticator needs.
type MemberSource interface {
	GetMembers(ctx context.Context) ([]models.TeamMember, error)
}

type Authenticator struct {
	members MemberSource
}

func NewAuthenticator(members MemberSource) *Authenticator {
	return &Authenticator{members: members}
}

// Login resolves a member by exact, case-sensitive email match and compares
// the supplied password against the stored one. On any mismatch it fails with
// ErrInvalidCredentials and no side effects.
func (a *Authenticator) Login(ctx context.Context, email, password string) (models.TeamMember, error) {
	members, err := a.members.GetMembers(ctx)
	if err != nil {
		return models.TeamMember{}, err
	}

	for _, m := range members {
		if m.Email == email {
			if m.Password == password {
				return m, nil
			}

			break
		}
	}

	return models.TeamMember{}, ErrInvalidCredentials
}

// Resolve re-fetches the member collection and re-resolves a persisted
// identity by id. A missing id means the member was deleted since the session
// was issued; the session is treated as expired.
func (a *Authenticator) Resolve(ctx context.Context, id string) (models.TeamMember, error) {
	members, err := a.members.GetMembers(ctx)
	if err != nil {
		return models.TeamMember{}, err
	}

	for _, m := range members {
		if m.ID == id {
			return m, nil
		}
	}

	return models.TeamMember{}, ErrSessionExpired
}
