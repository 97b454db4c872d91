package access

import (
	"github.com/google/uuid"

	"github.com/fastcommand/finance-backend/pkg/enums"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
)

// Actor is the authenticated identity attached to every core call. The core
// never authenticates; it only authorizes against the actor's role plus any
// per-user permission overrides carried in the token.
type Actor struct {
	ID        uuid.UUID
	Name      string
	Role      enums.Role
	Overrides []string
}

// Permissions returns the actor's effective permission set.
func (a Actor) Permissions() Permissions {
	return WithOverrides(PermissionsFor(a.Role), a.Overrides)
}

// Can reports whether the actor passes the check.
func (a Actor) Can(check Check) bool {
	if check == nil {
		return false
	}
	return check(a.Permissions())
}

// Require returns a forbidden error unless the actor passes the check.
func (a Actor) Require(check Check, action string) error {
	if a.Can(check) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "role "+a.Role.String()+" cannot "+action)
}
