package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"leadflow/internal/model"
)

// DefaultTokenExpiry is the lifetime of an access token.
const DefaultTokenExpiry = 24 * time.Hour

// ErrInvalidToken is returned when a token fails signature, expiry or payload checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed payload of an access token.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IssuedToken is a freshly signed access token.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// JWTService signs and verifies bearer credentials. It holds no state beyond
// its key and lifetime.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret. A
// non-positive ttl falls back to DefaultTokenExpiry.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = DefaultTokenExpiry
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for userID carrying role.
func (s *JWTService) Issue(userID uuid.UUID, role model.Role) (*IssuedToken, error) {
	now := s.now()
	id := uuid.New().String()
	expiresAt := now.Add(s.ttl)
	claims := &Claims{
		UserID: userID.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: signed, ID: id, ExpiresAt: expiresAt}, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Principal converts verified claims into a Principal.
func (c *Claims) Principal() (Principal, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return Principal{}, ErrInvalidToken
	}
	role, ok := model.ParseRole(c.Role)
	if !ok {
		return Principal{}, ErrInvalidToken
	}
	return Principal{UserID: id, Role: role}, nil
}
