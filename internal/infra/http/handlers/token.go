package handlers

import (
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
)

type AccessClaims struct {
	AccessID string `json:"access_id"`
	jwt.StandardClaims
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "leadgrid-dev-secret"
	}
	return []byte(secret)
}

func generateToken(accessID string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &AccessClaims{
		AccessID: accessID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})

	return t.SignedString(jwtSecret())
}
