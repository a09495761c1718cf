package services

import (
	"errors"
	"fmt"

	config "github.com/anjiri1684/estate_market/configs"
	"github.com/golang-jwt/jwt/v4"
)

// TokenClaims is the identity resolved from a bearer token.
type TokenClaims struct {
	UserID uint
	Role   string
}

type AuthService struct{}

func NewAuthService() *AuthService {
	return &AuthService{}
}

// VerifyToken resolves a bearer token to the authenticated user. Websocket
// clients pass the token as a query parameter because browsers cannot set
// handshake headers.
func (s *AuthService) VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return nil, errors.New("invalid user id claim")
	}
	role, _ := claims["role"].(string)

	return &TokenClaims{UserID: uint(rawID), Role: role}, nil
}
