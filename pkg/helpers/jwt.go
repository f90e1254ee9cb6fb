package helpers

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager issues and validates bearer tokens. Tokens carry a single
// userId claim, are signed HS512 with a process-wide key, and expire after
// TTL (30 days by default). Refresh is just Issue called again.
type JWTManager struct {
	key []byte
	ttl time.Duration
}

func NewJWTManager(tokenKey string, ttl time.Duration) *JWTManager {
	return &JWTManager{key: []byte(tokenKey), ttl: ttl}
}

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Issue mints a signed token for the given user id.
func (m *JWTManager) Issue(userID int) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: strconv.Itoa(userID),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return t.SignedString(m.key)
}

// Parse validates the signature and expiry and returns the embedded user id.
func (m *JWTManager) Parse(tokenStr string) (int, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.key, nil
	})
	if err != nil {
		return 0, err
	}
	if !tkn.Valid {
		return 0, errors.New("invalid token")
	}
	userID, err := strconv.Atoi(claims.UserID)
	if err != nil {
		return 0, errors.New("invalid userId claim")
	}
	return userID, nil
}
