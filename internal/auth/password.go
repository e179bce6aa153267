package auth

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor for stored credentials.
const PasswordCost = 10

// ErrPasswordTooLong is returned for passwords over bcrypt's 72-byte input limit.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
