package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/yourname/wardwatch/internal"
)

// LocalAuthProvider accepts a single static operator token.
type LocalAuthProvider struct {
	token  string
	logger internal.Logger
}

func NewLocalAuthProvider(token string, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{token: token, logger: logger}
}

func (a *LocalAuthProvider) Authenticate(ctx context.Context, token string) (*internal.Operator, error) {
	if a.token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) == 1 {
		return &internal.Operator{ID: "operator", Name: "Ward Operator"}, nil
	}
	a.logger.Warnf("invalid operator token")
	return nil, errors.New("invalid token")
}

var _ Provider = (*LocalAuthProvider)(nil)
