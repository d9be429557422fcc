// Package authz centralizes the authorization policy: given an already
// authenticated caller and a requested resource, it decides allow or deny.
// Authentication itself (token verification) happens earlier, in the HTTP
// middleware; by the time a Guard method runs the caller identity is trusted.
package authz

import (
	"github.com/messagely/messagely/internal/common"
	"github.com/messagely/messagely/internal/server/models"
)

// Guard evaluates the access-control decision table. Denials are
// common.ErrorForbidden; the guard never returns NotFound so it cannot be
// used to probe resource existence.
type Guard struct {
	// StrictProfiles restricts profile reads to the owner. The default
	// (false) lets any authenticated user list and view profiles.
	StrictProfiles bool
}

func NewGuard(strictProfiles bool) *Guard {
	return &Guard{StrictProfiles: strictProfiles}
}

// CanViewProfile reports whether caller may view target's profile.
func (g *Guard) CanViewProfile(caller, target string) error {
	if g.StrictProfiles && caller != target {
		return common.ErrorForbidden
	}
	return nil
}

// CanListProfiles reports whether caller may list all profiles.
// Any authenticated caller may; the listing never includes password hashes.
func (g *Guard) CanListProfiles(caller string) error {
	return nil
}

// CanReadMessage allows only the sender or the recipient of the message.
func (g *Guard) CanReadMessage(caller string, m *models.Message) error {
	if caller == m.FromUsername || caller == m.ToUsername {
		return nil
	}
	return common.ErrorForbidden
}

// CanMarkRead allows only the recipient. The sender may never mark a
// message read.
func (g *Guard) CanMarkRead(caller string, m *models.Message) error {
	if caller == m.ToUsername {
		return nil
	}
	return common.ErrorForbidden
}

// CanListMessages allows a caller to read only their own sent/received
// message listings.
func (g *Guard) CanListMessages(caller, owner string) error {
	if caller == owner {
		return nil
	}
	return common.ErrorForbidden
}
