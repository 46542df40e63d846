// SPDX-License-Identifier: Apache-2.0

// Package role defines the static specialist roles of the attendance
// assistant and the hand-off graph between them.
package role

import (
	"fmt"

	"github.com/tallyhq/tally/pkg/errors"
)

// Role is an immutable specialist definition, constructed once at startup.
type Role struct {
	// Name is the unique role identifier.
	Name string
	// Instructions is the system prompt for this role.
	Instructions string
	// Tools lists the catalog tool names visible to this role.
	Tools []string
	// HandoffTargets lists the role names this role may delegate to.
	HandoffTargets []string
}

// CanHandoffTo reports whether target is a legal delegation target.
func (r Role) CanHandoffTo(target string) bool {
	for _, t := range r.HandoffTargets {
		if t == target {
			return true
		}
	}
	return false
}

// HasTool reports whether the named tool is in this role's subset.
func (r Role) HasTool(name string) bool {
	for _, t := range r.Tools {
		if t == name {
			return true
		}
	}
	return false
}

// Registry holds the fixed role set. Read-only after construction.
type Registry struct {
	roles map[string]Role
	root  string
}

// NewRegistry builds and validates a registry. Exactly one role must be the
// root (entry) role, every hand-off target must exist, and no role may hand
// off to itself. Violations are fatal configuration errors, not per-request
// ones.
func NewRegistry(root string, roles ...Role) (*Registry, error) {
	r := &Registry{roles: make(map[string]Role, len(roles)), root: root}
	for _, role := range roles {
		if role.Name == "" {
			return nil, errors.New(errors.CodeConfigError, "role name is empty", nil)
		}
		if _, exists := r.roles[role.Name]; exists {
			return nil, errors.New(errors.CodeConfigError,
				fmt.Sprintf("duplicate role %q", role.Name), nil)
		}
		r.roles[role.Name] = role
	}
	if _, ok := r.roles[root]; !ok {
		return nil, errors.New(errors.CodeConfigError,
			fmt.Sprintf("root role %q is not defined", root), nil)
	}
	for _, role := range r.roles {
		for _, target := range role.HandoffTargets {
			if target == role.Name {
				return nil, errors.New(errors.CodeConfigError,
					fmt.Sprintf("role %q hands off to itself", role.Name), nil)
			}
			if _, ok := r.roles[target]; !ok {
				return nil, errors.New(errors.CodeUnknownRole,
					fmt.Sprintf("role %q hands off to undefined role %q", role.Name, target), nil)
			}
		}
	}
	return r, nil
}

// ForRole returns the role registered under name.
func (r *Registry) ForRole(name string) (Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return Role{}, errors.New(errors.CodeUnknownRole,
			fmt.Sprintf("unknown role %q", name), nil)
	}
	return role, nil
}

// Root returns the entry role name.
func (r *Registry) Root() string { return r.root }

// Names returns all role names. Order is unspecified.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.roles))
	for name := range r.roles {
		names = append(names, name)
	}
	return names
}
