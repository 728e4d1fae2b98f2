package ports

import (
	"context"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
)

// Catalog is the read side of the music catalog, bound to one access token.
type Catalog interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]domain.TrackStub, error)
	SearchArtists(ctx context.Context, query string, limit int) ([]domain.CatalogArtist, error)
	GetArtist(ctx context.Context, id string) (domain.CatalogArtist, error)
	GetTopTracks(ctx context.Context, artistID string, market string) ([]domain.TopTrack, error)
}

// PlaylistWriter is the write side of the catalog, bound to one access token.
type PlaylistWriter interface {
	CurrentUserID(ctx context.Context) (string, error)
	CreatePlaylist(ctx context.Context, userID string, req domain.PlaylistRequest) (domain.SavedPlaylist, error)
	AddTracks(ctx context.Context, playlistID string, uris []string) error
}

// CatalogSession is everything a token-bound catalog client offers.
type CatalogSession interface {
	Catalog
	PlaylistWriter
}

// CatalogFactory builds a short-lived, token-bound session per request.
// Implementations are shared across requests and must be safe for concurrent use.
type CatalogFactory interface {
	ForToken(accessToken string) CatalogSession
}
