package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
)

// CurrentUserID returns the Spotify user ID owning the access token.
func (c *Client) CurrentUserID(ctx context.Context) (string, error) {
	var user spotifyUser
	if err := c.getJSON(ctx, "current user", "/me", nil, &user); err != nil {
		return "", err
	}
	if user.ID == "" {
		return "", &domain.UpstreamError{Op: "current user", Err: fmt.Errorf("empty user id")}
	}
	return user.ID, nil
}

// CreatePlaylist creates an empty playlist on the user's account.
func (c *Client) CreatePlaylist(ctx context.Context, userID string, req domain.PlaylistRequest) (domain.SavedPlaylist, error) {
	body := createPlaylistRequest{
		Name:        req.Name,
		Description: req.Description,
		Public:      req.Public,
	}

	var created spotifyPlaylist
	path := "/users/" + url.PathEscape(userID) + "/playlists"
	if err := c.sendJSON(ctx, http.MethodPost, "create playlist", path, body, &created, http.StatusOK, http.StatusCreated); err != nil {
		return domain.SavedPlaylist{}, err
	}

	return mapPlaylistToDomain(created, req), nil
}

// AddTracks appends up to domain.MaxTracksPerAdd track URIs to a playlist.
// Spotify returns a snapshot ID which this adapter does not need.
func (c *Client) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) > domain.MaxTracksPerAdd {
		return fmt.Errorf("spotify adapter: %d uris exceeds per-call limit %d", len(uris), domain.MaxTracksPerAdd)
	}
	path := "/playlists/" + url.PathEscape(playlistID) + "/tracks"
	return c.sendJSON(ctx, http.MethodPost, "add tracks", path, addTracksRequest{URIs: uris}, nil, http.StatusOK, http.StatusCreated)
}
