package domain

import "strings"

// Role is the account type stored with every user.
type Role string

const (
	RoleCustomer    Role = "CUSTOMER"
	RoleAgencyAdmin Role = "AGENCY_ADMIN"
	RoleAgencyUser  Role = "AGENCY_USER"
	RoleAdmin       Role = "ADMIN"
)

// User is the signed-in identity carried by a session.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	AgencyID int    `json:"agency_id,omitempty"`
}

// ParseRole accepts any casing; unknown values return false.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleCustomer, RoleAgencyAdmin, RoleAgencyUser, RoleAdmin:
		return r, true
	}
	return "", false
}

// IsAgency reports whether the role may open the agency dashboard.
func (r Role) IsAgency() bool {
	return r == RoleAgencyAdmin || r == RoleAgencyUser || r == RoleAdmin
}

// CanManage reports whether the role may change agency settings and staff.
func (r Role) CanManage() bool {
	return r == RoleAgencyAdmin || r == RoleAdmin
}

func (r Role) String() string { return string(r) }

// NormalizeEmail lower-cases and trims an address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
