//go:build race

package auth

import "golang.org/x/crypto/bcrypt"

// race builds run hashing much slower, keep the suite under its timeout
func passwordHashCost() int {
	return bcrypt.DefaultCost
}
