package utils

// Roles embedded in access tokens. Registration always produces
// CUSTOMER; ADMIN accounts are seeded directly in the database.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)
