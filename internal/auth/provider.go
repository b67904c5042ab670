package auth

import (
	"context"

	"github.com/yourname/wardwatch/internal"
)

type Provider interface {
	Authenticate(ctx context.Context, token string) (*internal.Operator, error)
}
