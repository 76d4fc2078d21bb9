package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserProvider checks login credentials against the directory
type UserProvider struct {
	directory UserDirectory
	passwords PasswordVerifier
	logger    Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(directory UserDirectory, passwords PasswordVerifier) *UserProvider {
	if passwords == nil {
		passwords = BcryptVerifier{}
	}
	return &UserProvider{
		directory: directory,
		passwords: passwords,
		logger:    defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	u.logger = normalizeLogger(l)
	return u
}

// VerifyIdentity will find the user by email, compare the password, and
// return the user. Unknown emails, inactive users, and wrong passwords
// all return ErrInvalidCredentials.
func (u *UserProvider) VerifyIdentity(ctx context.Context, email, password string) (*User, error) {
	user, err := u.directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			u.logger.Debug("login for unknown email", "email", redactEmail(email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if !u.passwords.Check(password, user.PasswordHash) {
		u.logger.Debug("login password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
