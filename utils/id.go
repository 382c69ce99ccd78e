package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns size random bytes encoded as a hex string (2*size characters).
func RandomHex(size int) (string, error) {
	bytes := make([]byte, size)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
