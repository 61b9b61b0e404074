package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried in access and refresh tokens.
type Claims struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

// TokenPair is returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// GenerateTokens issues a short-lived access token and a longer refresh
// token for the same identity.
func GenerateTokens(secret []byte, uid, name, photoURL string, admin bool) (TokenPair, error) {
	access, err := signToken(secret, uid, name, photoURL, admin, 15*time.Minute)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := signToken(secret, uid, name, photoURL, admin, 7*24*time.Hour)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func signToken(secret []byte, uid, name, photoURL string, admin bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:      uid,
		Name:     name,
		PhotoURL: photoURL,
		Admin:    admin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies a signed token and returns its claims.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
