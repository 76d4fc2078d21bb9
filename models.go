package auth

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// UserNameMaxLength is the maximum length of a user_name
const UserNameMaxLength = 15

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	UserName      string     `bun:"user_name,notnull,unique" json:"user_name"`
	Email         string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	IsActive      bool       `bun:"is_active,notnull,default:true" json:"-"`
	IsStaff       bool       `bun:"is_staff,notnull,default:false" json:"-"`
	IsSuperuser   bool       `bun:"is_superuser,notnull,default:false" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"-"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"-"`
}

// UserUpdate carries the fields an update action may change.
// Nil fields are left untouched.
type UserUpdate struct {
	UserName *string
	Email    *string
	Password *string
}

// Empty reports whether the update would change nothing
func (u UserUpdate) Empty() bool {
	return u.UserName == nil && u.Email == nil && u.Password == nil
}

// NormalizeEmail lowercases the domain part of an email address,
// leaving the local part as given.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// UserIdentity adapts a User into the Identity interface for token generation.
type UserIdentity struct {
	user *User
}

// NewIdentityFromUser returns an Identity adapter for the provided user.
func NewIdentityFromUser(user *User) Identity {
	if user == nil {
		return nil
	}
	return UserIdentity{user: user}
}

// ID returns the user's numeric id
func (u UserIdentity) ID() int64 {
	if u.user == nil {
		return 0
	}
	return u.user.ID
}

// Username returns the user's user_name
func (u UserIdentity) Username() string {
	if u.user == nil {
		return ""
	}
	return u.user.UserName
}

// Email returns the user's email address.
func (u UserIdentity) Email() string {
	if u.user == nil {
		return ""
	}
	return u.user.Email
}

// User returns the wrapped record
func (u UserIdentity) User() *User {
	return u.user
}

var _ Identity = UserIdentity{}
