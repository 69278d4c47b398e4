package models

// Role is the fixed role of a profile. The set is closed.
type Role string

const (
	RoleCitizen    Role = "citizen"
	RoleAdmin      Role = "admin"
	RoleKiosk      Role = "kiosk"
	RoleSuperAdmin Role = "super_admin"
)

// Roles lists every role in display order.
var Roles = []Role{RoleCitizen, RoleAdmin, RoleKiosk, RoleSuperAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleAdmin, RoleKiosk, RoleSuperAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role belongs to government staff.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Role     Role   `json:"role"`
	OfficeID string `json:"office_id,omitempty"`
}

// SessionUser is the authenticated identity behind a profile.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
