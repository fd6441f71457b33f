package domain

import dErrors "onboard/pkg/domain-errors"

// Role is a platform role held by a person, globally or within an organization.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleDeveloper Role = "DEVELOPER"
	RoleManager   Role = "ORG_MANAGER"
	RoleDelegate  Role = "ORG_DELEGATE"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDeveloper, RoleManager, RoleDelegate:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole validates a role literal.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role: "+s)
	}
	return r, nil
}
