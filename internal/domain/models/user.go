package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account. Email is the login identifier (stored
// lowercase); EmailCI is the folded form used for matching.
//
// AuthMethod is "password" or "google".
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"`

	Email      string `bson:"email" json:"email"`
	EmailCI    string `bson:"email_ci" json:"-"`
	AuthMethod string `bson:"auth_method" json:"auth_method"`

	// PasswordHash is a bcrypt hash, present only for password auth.
	PasswordHash *string `bson:"password_hash,omitempty" json:"-"`

	Role   string `bson:"role" json:"role"`                         // user, admin
	Status string `bson:"status,omitempty" json:"status,omitempty"` // active, disabled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsValidRole checks if a role is valid.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
