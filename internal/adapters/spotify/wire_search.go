package spotify

import (
	"context"
	"net/url"
	"strconv"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
)

// SearchTracks searches the track index for query.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]domain.TrackStub, error) {
	var body trackSearchResponse
	if err := c.getJSON(ctx, "search tracks", "/search", searchParams(query, "track", limit), &body); err != nil {
		return nil, err
	}

	out := make([]domain.TrackStub, 0, len(body.Tracks.Items))
	for _, item := range body.Tracks.Items {
		out = append(out, mapTrackStubToDomain(item))
	}
	return out, nil
}

// SearchArtists searches the artist index for query.
func (c *Client) SearchArtists(ctx context.Context, query string, limit int) ([]domain.CatalogArtist, error) {
	var body artistSearchResponse
	if err := c.getJSON(ctx, "search artists", "/search", searchParams(query, "artist", limit), &body); err != nil {
		return nil, err
	}

	out := make([]domain.CatalogArtist, 0, len(body.Artists.Items))
	for _, item := range body.Artists.Items {
		out = append(out, mapArtistToDomain(item))
	}
	return out, nil
}

func searchParams(query, kind string, limit int) url.Values {
	if limit <= 0 {
		limit = 1
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("type", kind)
	q.Set("limit", strconv.Itoa(limit))
	return q
}
