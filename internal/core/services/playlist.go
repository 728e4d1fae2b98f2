package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
	"github.com/ewilliams-labs/genrelay/internal/core/ports"
	"github.com/ewilliams-labs/genrelay/internal/logging"
)

// PlaylistService saves recommended tracks to the user's library.
type PlaylistService struct {
	catalogs ports.CatalogFactory
	ledger   ports.LedgerQueue
	logger   *log.Logger
	now      func() time.Time
}

// NewPlaylistService builds the service. ledger may be nil, in which case
// nothing is recorded.
func NewPlaylistService(catalogs ports.CatalogFactory, ledger ports.LedgerQueue, logger *log.Logger) *PlaylistService {
	return &PlaylistService{
		catalogs: catalogs,
		ledger:   ledger,
		logger:   logging.Component(logger, "playlists"),
		now:      time.Now,
	}
}

// Save creates a playlist owned by the token's user and adds the requested
// tracks in batches. When a batch fails the playlist is left as is and the
// partial result is returned together with the error.
func (s *PlaylistService) Save(ctx context.Context, accessToken string, req domain.PlaylistRequest) (domain.SavedPlaylist, error) {
	if strings.TrimSpace(accessToken) == "" {
		return domain.SavedPlaylist{}, fmt.Errorf("%w: access token is required", domain.ErrUnauthorized)
	}
	if strings.TrimSpace(req.Name) == "" {
		return domain.SavedPlaylist{}, fmt.Errorf("%w: playlist name is required", domain.ErrBadRequest)
	}

	session := s.catalogs.ForToken(accessToken)

	userID, err := session.CurrentUserID(ctx)
	if err != nil {
		s.record(req, domain.SavedPlaylist{}, err)
		return domain.SavedPlaylist{}, fmt.Errorf("service: current user: %w", err)
	}

	saved, err := session.CreatePlaylist(ctx, userID, req)
	if err != nil {
		s.record(req, domain.SavedPlaylist{}, err)
		return domain.SavedPlaylist{}, fmt.Errorf("service: create playlist: %w", err)
	}
	saved.TracksRequested = len(req.TrackIDs)
	saved.TracksAdded = 0

	uris := req.URIs()
	for start := 0; start < len(uris); start += domain.MaxTracksPerAdd {
		end := min(start+domain.MaxTracksPerAdd, len(uris))
		if err := session.AddTracks(ctx, saved.ID, uris[start:end]); err != nil {
			s.logger.Warn("add tracks failed", "playlist", saved.ID, "added", saved.TracksAdded, "err", err)
			s.record(req, saved, err)
			return saved, fmt.Errorf("service: add tracks to %s: %w", saved.ID, err)
		}
		saved.TracksAdded += end - start
	}

	s.logger.Info("playlist saved", "playlist", saved.ID, "tracks", saved.TracksAdded)
	s.record(req, saved, nil)
	return saved, nil
}

func (s *PlaylistService) record(req domain.PlaylistRequest, saved domain.SavedPlaylist, cause error) {
	if s.ledger == nil {
		return
	}

	entry := domain.LedgerEntry{
		ID:              uuid.NewString(),
		PlaylistID:      saved.ID,
		Name:            req.Name,
		Query:           req.Query,
		TracksRequested: len(req.TrackIDs),
		TracksAdded:     saved.TracksAdded,
		Status:          domain.LedgerSaved,
		CreatedAt:       s.now().UTC(),
	}
	switch {
	case cause != nil && saved.ID != "":
		entry.Status = domain.LedgerPartial
		entry.Error = cause.Error()
	case cause != nil:
		entry.Status = domain.LedgerFailed
		entry.Error = cause.Error()
	}
	s.ledger.Submit(entry)
}
