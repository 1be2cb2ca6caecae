package models

import (
	"strings"

	"github.com/pkg/errors"
)

type UserRole string

// PendingUIDPrefix marks a seeded account not yet linked to a Firebase identity.
const PendingUIDPrefix = "pending:"

func IsPendingUID(uid string) bool {
	return strings.HasPrefix(uid, PendingUIDPrefix)
}

const (
	UserRoleCompany UserRole = "company"
	UserRoleVA      UserRole = "va"
	UserRoleAdmin   UserRole = "admin"
)

var roleHumanName = map[UserRole]string{
	UserRoleCompany: "Company",
	UserRoleVA:      "Virtual assistant",
	UserRoleAdmin:   "Administrator",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) Validate() error {
	switch r {
	case UserRoleCompany, UserRoleVA, UserRoleAdmin:
		return nil
	case "":
		return errors.New("role is empty")
	default:
		return errors.Errorf("unknown role %q", string(r))
	}
}

// IsSelfAssignable reports whether a user may pick the role on first sign in.
func (r UserRole) IsSelfAssignable() bool {
	switch r {
	case UserRoleCompany, UserRoleVA:
		return true
	case UserRoleAdmin:
		return false
	default:
		return false
	}
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID          string
	FirebaseUID     string
	Email           string
	Role            UserRole
	ProfileComplete bool
}

func (a Actor) IsRegistered() bool {
	return a.UserID != ""
}
