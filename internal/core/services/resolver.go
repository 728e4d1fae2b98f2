package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
	"github.com/ewilliams-labs/genrelay/internal/core/ports"
	"github.com/ewilliams-labs/genrelay/internal/logging"
)

// DefaultMarket is the reference market for top-track lookups.
const DefaultMarket = "US"

// Resolver maps a free-text query to a canonical catalog artist.
type Resolver struct {
	market string
	logger *log.Logger
}

// NewResolver builds a Resolver. An empty market falls back to DefaultMarket.
func NewResolver(market string, logger *log.Logger) *Resolver {
	if market == "" {
		market = DefaultMarket
	}
	return &Resolver{market: market, logger: logging.Component(logger, "resolver")}
}

// Resolve prefers the primary artist of the best track match, because a
// literal query usually names a song more precisely than an artist, and falls
// back to the artist index. Catalog failures are returned unchanged so callers
// can tell ErrCredentialExpired from ErrUpstreamUnavailable.
func (r *Resolver) Resolve(ctx context.Context, catalog ports.Catalog, query string) (domain.ResolvedArtist, error) {
	tracks, err := catalog.SearchTracks(ctx, query, 1)
	if err != nil {
		return domain.ResolvedArtist{}, fmt.Errorf("service: track search: %w", err)
	}

	if len(tracks) > 0 && len(tracks[0].ArtistIDs) > 0 {
		artistID := tracks[0].ArtistIDs[0]
		r.logger.Debug("resolved via track", "query", query, "track", tracks[0].Name, "artist_id", artistID)

		artist, err := catalog.GetArtist(ctx, artistID)
		if err != nil {
			return domain.ResolvedArtist{}, fmt.Errorf("service: get artist %s: %w", artistID, err)
		}
		return artist.Resolved(), nil
	}

	artists, err := catalog.SearchArtists(ctx, query, 1)
	if err != nil {
		return domain.ResolvedArtist{}, fmt.Errorf("service: artist search: %w", err)
	}
	if len(artists) == 0 {
		return domain.ResolvedArtist{}, fmt.Errorf("%w: no artist or track matches %q", domain.ErrNotFound, query)
	}

	r.logger.Debug("resolved via artist search", "query", query, "artist", artists[0].Name)
	return artists[0].Resolved(), nil
}

// TopTracks returns up to domain.MaxTopTracks tracks in catalog order. Any
// failure yields an empty slice; a missing top-track list never fails a request.
func (r *Resolver) TopTracks(ctx context.Context, catalog ports.Catalog, artistID string) []domain.TopTrack {
	tracks, err := catalog.GetTopTracks(ctx, artistID, r.market)
	if err != nil {
		r.logger.Warn("top tracks unavailable", "artist_id", artistID, "err", err)
		return []domain.TopTrack{}
	}
	if len(tracks) > domain.MaxTopTracks {
		tracks = tracks[:domain.MaxTopTracks]
	}
	if tracks == nil {
		tracks = []domain.TopTrack{}
	}
	return tracks
}
