package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost matches the work factor used for every stored admin hash.
	BcryptCost = 12
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)

var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// dummyHash is compared against when the username is unknown so that
// response timing does not reveal which usernames exist.
var dummyHash = []byte("$2a$12$C6UzMDM.H6dfI/f/IKcEeO5jF0tNdZ1bQ/Hj7qyd9K7SC4xB0r3ka")

func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	if hash == "" || len(password) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SimulatePasswordCheck spends about as long as CheckPassword and always fails.
func SimulatePasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
