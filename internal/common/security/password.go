package security

import (
	"github.com/proditto/portfolio-api/internal/platform/config"

	"golang.org/x/crypto/bcrypt"
)

const defaultBcryptCost = 12

func bcryptCost() int {
	if config.AppConfig != nil && config.AppConfig.BcryptCost > 0 {
		return config.AppConfig.BcryptCost
	}
	return defaultBcryptCost
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost())
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
