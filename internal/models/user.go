// Package models defines the archive's records: users, letters and the
// partial letter fields returned by AI extraction.
package models

// UserRole distinguishes administrators from regular staff.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ProtectedUsername is the username that user management refuses to delete.
const ProtectedUsername = "admin"

// User is an account. Password holds an argon2id hash or, for seeded and
// restored accounts, plaintext.
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
	FullName string   `json:"fullName"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Public returns a copy of u with the password cleared.
func (u User) Public() User {
	u.Password = ""
	return u
}

// DefaultUsers is the collection seeded on first run or when the stored
// collection cannot be read.
func DefaultUsers() []User {
	return []User{
		{ID: "1", Username: "admin", Password: "admin123", Role: RoleAdmin, FullName: "Administrator Utama"},
		{ID: "2", Username: "staff", Password: "staff123", Role: RoleUser, FullName: "Staff Kearsipan"},
	}
}
