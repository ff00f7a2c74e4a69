package models

// Role is the closed set of account roles. Authorization is a plain
// set-membership check against an endpoint's allowed roles, not a hierarchy.
type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RoleOwnerEvent    Role = "OWNER_EVENT"
	RoleClient        Role = "CLIENT"
	RoleServiceClient Role = "SERVICE_CLIENT"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleOwnerEvent, RoleClient, RoleServiceClient:
		return Role(s), true
	}
	return "", false
}

func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
