package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yourname/wardwatch/internal"
)

// JWTAuthProvider accepts HS256 tokens signed with a shared secret. The
// subject identifies the operator; an optional "name" claim labels it.
type JWTAuthProvider struct {
	secret []byte
	logger internal.Logger
}

func NewJWTAuthProvider(secret string, logger internal.Logger) *JWTAuthProvider {
	return &JWTAuthProvider{secret: []byte(secret), logger: logger}
}

type operatorClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func (a *JWTAuthProvider) Authenticate(ctx context.Context, token string) (*internal.Operator, error) {
	claims := &operatorClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		a.logger.Warnf("rejected operator token: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("invalid token: missing subject")
	}
	return &internal.Operator{ID: claims.Subject, Name: claims.Name}, nil
}

var _ Provider = (*JWTAuthProvider)(nil)
