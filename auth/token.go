package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mitchellh/mapstructure"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 60 * 24 * time.Hour

var ErrInvalidToken = errors.New("auth: invalid token")

// Claims is the decoded payload of a token.
type Claims struct {
	ID        string `mapstructure:"id"`
	FullName  string `mapstructure:"fullname"`
	ExpiresAt int64  `mapstructure:"exp"`
}

// Issuer signs and verifies HS256 tokens with a single process-wide secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a token carrying the user id and full name.
func (i *Issuer) Issue(userID, fullName string) (string, error) {
	claims := jwt.MapClaims{
		"id":       userID,
		"fullname": fullName,
		"exp":      i.now().Add(i.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify checks the signature and expiry of tokenString and decodes its claims.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	var claims Claims
	if err := mapstructure.Decode(map[string]interface{}(mapClaims), &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidToken)
	}

	return &claims, nil
}
