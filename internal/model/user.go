package model

import "time"

// Role is the flat classification that decides which actions a user may
// invoke. Only the three constants below are valid values.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Roles lists every known role, lowest privilege first.
var Roles = []Role{RoleUser, RoleAdmin, RoleSuperAdmin}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// User represents an application user record as stored in the
// `users` table. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – display handle.
//  Email        – unique email address.
//  FirstName    – given name.
//  LastName     – family name.
//  PasswordSalt – random alphanumeric salt mixed into the password digest.
//  PasswordHash – encoded argon2id digest of password||salt, cost settings included.
//  Role         – user, admin or super_admin.
//  Token        – current bearer token, nil when logged out.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	PasswordSalt string    // users.salt
	PasswordHash string    // users.hash
	Role         Role      // users.role
	Token        *string   // users.token (nullable)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// LoggedIn reports whether the user currently holds a bearer token.
func (u User) LoggedIn() bool { return u.Token != nil && *u.Token != "" }
