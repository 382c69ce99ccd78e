package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"

	"github.com/biosecret/todolist-api/utils"
)

const (
	saltSize       = 16
	hashIterations = 10000
	hashKeyLength  = 64
)

// HashPassword derives a salted PBKDF2-SHA512 hash from password using a fresh salt.
func HashPassword(password string) (salt, hash string, err error) {
	salt, err = utils.RandomHex(saltSize)
	if err != nil {
		return "", "", err
	}
	return salt, derive(password, salt), nil
}

// CheckPassword reports whether password hashes to hash under salt.
func CheckPassword(password, salt, hash string) bool {
	if salt == "" || hash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(derive(password, salt)), []byte(hash)) == 1
}

func derive(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), hashIterations, hashKeyLength, sha512.New)
	return hex.EncodeToString(key)
}
