package utils

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt"
	"video-bot/infrastructure/logger"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

func GenerateToken(payload map[string]interface{}, secretKey string) (string, error) {
	var claims jwt.MapClaims = payload
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}

// GenerateState returns a random URL-safe state token for the authorization
// handshake.
func GenerateState() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
