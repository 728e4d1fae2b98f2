package spotify

import (
	"context"
	"net/url"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
)

// GetArtist fetches an artist's full record by ID.
func (c *Client) GetArtist(ctx context.Context, id string) (domain.CatalogArtist, error) {
	var body spotifyArtist
	if err := c.getJSON(ctx, "get artist", "/artists/"+url.PathEscape(id), nil, &body); err != nil {
		return domain.CatalogArtist{}, err
	}
	return mapArtistToDomain(body), nil
}

// GetTopTracks fetches an artist's top tracks for market, in catalog order.
func (c *Client) GetTopTracks(ctx context.Context, artistID string, market string) ([]domain.TopTrack, error) {
	q := url.Values{}
	if market != "" {
		q.Set("market", market)
	}

	var body topTracksResponse
	if err := c.getJSON(ctx, "top tracks", "/artists/"+url.PathEscape(artistID)+"/top-tracks", q, &body); err != nil {
		return nil, err
	}

	out := make([]domain.TopTrack, 0, len(body.Tracks))
	for _, t := range body.Tracks {
		out = append(out, mapTopTrackToDomain(t))
	}
	return out, nil
}
