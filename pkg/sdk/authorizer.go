package sdk

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed authz_model.conf
var authzModelContent string

// ErrForbidden is returned when the current role may not use a capability.
var ErrForbidden = errors.New("forbidden for current role")

// Authorizer answers role/capability checks with a Casbin enforcer loaded from
// the static capability table.
type Authorizer struct {
	enforcer casbin.IEnforcer
}

// NewAuthorizer builds the enforcer and loads one policy per (role, capability)
// pair of the capability table.
func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(authzModelContent)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	var rules [][]string
	for _, entry := range capabilityTable {
		for _, role := range entry.roles {
			rules = append(rules, []string{string(role), string(entry.capability)})
		}
	}
	if _, err := enforcer.AddPolicies(rules); err != nil {
		return nil, fmt.Errorf("load capability policies: %w", err)
	}

	return &Authorizer{enforcer: enforcer}, nil
}

// MustNewAuthorizer is NewAuthorizer for package-level initialisation.
func MustNewAuthorizer() *Authorizer {
	a, err := NewAuthorizer()
	if err != nil {
		panic(err)
	}
	return a
}

// Allows reports whether role may use capability. Unknown roles are checked as
// student.
func (a *Authorizer) Allows(role Role, capability Capability) bool {
	if _, ok := ParseRole(string(role)); !ok {
		role = RoleStudent
	}
	ok, err := a.enforcer.Enforce(string(role), string(capability))
	if err != nil {
		return false
	}
	return ok
}

// Require returns ErrForbidden unless identity may use capability. A nil identity
// yields ErrNotAuthenticated.
func (a *Authorizer) Require(identity *Identity, capability Capability) error {
	if identity == nil {
		return ErrNotAuthenticated
	}
	if !a.Allows(identity.Role, capability) {
		return fmt.Errorf("%w: %s cannot access %s", ErrForbidden, identity.Role, capability)
	}
	return nil
}
