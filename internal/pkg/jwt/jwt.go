package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrKeyMismatch  = errors.New("token was issued for another object")
)

// Service issues short-lived tokens granting read access to one stored object.
type Service struct {
	secret []byte
	now    func() time.Time
}

type Claims struct {
	Key string `json:"key"`
	jwtlib.RegisteredClaims
}

func New(secret string) *Service {
	return &Service{
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (s *Service) GenerateObjectToken(key string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Key: key,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateObjectToken checks signature, expiry and that the token names key.
func (s *Service) ValidateObjectToken(tokenStr, key string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}), jwtlib.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims.Key != key {
		return nil, ErrKeyMismatch
	}

	return claims, nil
}
