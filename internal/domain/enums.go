package domain

type Role string

const (
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[string]bool{
	"MANAGER": true, "MEMBER": true,
}
