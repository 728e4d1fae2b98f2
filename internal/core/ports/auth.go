package ports

import (
	"context"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
)

// Authorizer runs the catalog's OAuth authorization-code flow.
type Authorizer interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (domain.Token, error)
	Refresh(ctx context.Context, refreshToken string) (domain.Token, error)
}
