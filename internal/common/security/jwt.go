package security

import (
	"time"

	"github.com/proditto/portfolio-api/internal/common"
	"github.com/proditto/portfolio-api/internal/domain/model"
	"github.com/proditto/portfolio-api/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var (
	TokenAuth *jwtauth.JWTAuth
	jwtKeySet bool
)

const defaultTokenTTL = 7 * 24 * time.Hour

func tokenTTL() time.Duration {
	if config.AppConfig != nil && config.AppConfig.JWTExp > 0 {
		return config.AppConfig.JWTExp
	}
	return defaultTokenTTL
}

func InitJWT() {
	key := config.AppConfig.JWTKey
	jwtKeySet = len(key) > 0
	TokenAuth = jwtauth.New("HS256", key, nil)
}

// InitJWTForTest wires the codec with an explicit key, bypassing config.
func InitJWTForTest(key []byte) {
	jwtKeySet = len(key) > 0
	TokenAuth = jwtauth.New("HS256", key, nil)
}

// Configured reports whether a signing secret was provided. When it is
// missing the server still boots; every protected request fails with a
// configuration error instead.
func Configured() bool {
	return TokenAuth != nil && jwtKeySet
}

func GenerateToken(userID, email string, role model.Role) (string, error) {
	if !Configured() {
		return "", common.NewError(common.ErrMisconfigured, "JWT secret not configured")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"exp":     now.Add(tokenTTL()).Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// Claim extraction helpers used by the auth middleware.
func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return "", common.NewError(common.ErrInvalidToken, "Invalid token.")
	}
	return id, nil
}

func GetRoleFromClaims(claims map[string]interface{}) (model.Role, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", common.NewError(common.ErrInvalidToken, "Invalid token.")
	}
	return model.Role(role), nil
}
