package identity

// Role gates privileged operations. Only a superadmin may list every tenant's
// profile.
type Role string

const (
	RoleNormal     Role = "normal"
	RoleSuperadmin Role = "superadmin"
)

// UserProfile is one tenant account. Its identity is the tenant id itself.
type UserProfile struct {
	TenantID string
	Name     string
	Email    string
	PhotoURL string
	Role     Role
}

// IsPrivileged reports whether the profile may read across tenants.
func (p UserProfile) IsPrivileged() bool {
	return p.Role == RoleSuperadmin
}
