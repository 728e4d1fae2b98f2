package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxTracksPerAdd is the catalog's per-call limit when adding tracks to a playlist.
const MaxTracksPerAdd = 100

var ErrDuplicateTrack = errors.New("domain: duplicate track")

// PlaylistRequest describes a playlist to persist on the user's account.
type PlaylistRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Public      bool     `json:"public"`
	Query       string   `json:"query,omitempty"`
	TrackIDs    []string `json:"trackIds"`
}

// NewPlaylistRequest validates the request and normalizes its track references.
func NewPlaylistRequest(name, description string, public bool, refs []string) (*PlaylistRequest, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", ErrBadRequest)
	}
	p := &PlaylistRequest{
		Name:        name,
		Description: description,
		Public:      public,
		TrackIDs:    []string{},
	}
	for _, ref := range refs {
		if err := p.AddTrack(ref); err != nil && !errors.Is(err, ErrDuplicateTrack) {
			return nil, err
		}
	}
	if len(p.TrackIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one track is required", ErrBadRequest)
	}
	return p, nil
}

// AddTrack appends a track reference while preventing duplicates.
// Bare IDs, spotify:track: URIs and open.spotify.com track URLs are accepted.
func (p *PlaylistRequest) AddTrack(ref string) error {
	id := ParseTrackID(ref)
	if id == "" {
		return fmt.Errorf("%w: invalid track reference %q", ErrBadRequest, ref)
	}
	for _, ex := range p.TrackIDs {
		if ex == id {
			return ErrDuplicateTrack
		}
	}
	p.TrackIDs = append(p.TrackIDs, id)
	return nil
}

// URIs returns the catalog URIs for the request's tracks.
func (p *PlaylistRequest) URIs() []string {
	uris := make([]string, len(p.TrackIDs))
	for i, id := range p.TrackIDs {
		uris[i] = "spotify:track:" + id
	}
	return uris
}

// ParseTrackID extracts a bare track ID from a reference, or returns "".
func ParseTrackID(ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case strings.HasPrefix(ref, "spotify:track:"):
		ref = strings.TrimPrefix(ref, "spotify:track:")
	case strings.Contains(ref, "open.spotify.com/track/"):
		ref = ref[strings.Index(ref, "open.spotify.com/track/")+len("open.spotify.com/track/"):]
		if i := strings.IndexAny(ref, "?#/"); i != -1 {
			ref = ref[:i]
		}
	}
	for _, r := range ref {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return ""
		}
	}
	return ref
}

// SavedPlaylist reports the outcome of persisting a playlist.
type SavedPlaylist struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	Name            string `json:"name"`
	TracksRequested int    `json:"tracksRequested"`
	TracksAdded     int    `json:"tracksAdded"`
}

// Complete reports whether every requested track was added.
func (s SavedPlaylist) Complete() bool {
	return s.ID != "" && s.TracksAdded == s.TracksRequested
}

// LedgerStatus classifies a recorded playlist save attempt.
type LedgerStatus string

const (
	LedgerSaved   LedgerStatus = "saved"
	LedgerPartial LedgerStatus = "partial"
	LedgerFailed  LedgerStatus = "failed"
)

// LedgerEntry is the audit record of one playlist save attempt.
type LedgerEntry struct {
	ID              string       `json:"id"`
	PlaylistID      string       `json:"playlistId,omitempty"`
	Name            string       `json:"name"`
	Query           string       `json:"query,omitempty"`
	TracksRequested int          `json:"tracksRequested"`
	TracksAdded     int          `json:"tracksAdded"`
	Status          LedgerStatus `json:"status"`
	Error           string       `json:"error,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// Token is an OAuth token pair returned to clients.
type Token struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	TokenType    string    `json:"tokenType"`
	Expiry       time.Time `json:"expiry"`
}
