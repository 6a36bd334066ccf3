package user

// Role is the coarse authorization level carried in JWT claims. User
// accounts themselves are owned by the platform's auth service; the
// reservation core only consumes the role.
type Role string

const (
	RoleMember Role = "member"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

// AtLeast orders roles member < staff < admin.
func (r Role) AtLeast(other Role) bool {
	return r.level() >= other.level()
}

func (r Role) level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleStaff:
		return 2
	case RoleMember:
		return 1
	default:
		return 0
	}
}

func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}
