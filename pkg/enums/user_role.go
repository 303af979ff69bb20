package enums

// UserRole separates the storefront customer surface from the admin console.
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"
)

// IsValid reports whether the value is a known role.
func (r UserRole) IsValid() bool {
	return r == UserRoleCustomer || r == UserRoleAdmin
}
