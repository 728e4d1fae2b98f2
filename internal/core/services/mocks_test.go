package services

import (
	"context"
	"sync"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
	"github.com/ewilliams-labs/genrelay/internal/core/ports"
)

// mockCatalog is a scripted catalog session. It is safe for concurrent use.
type mockCatalog struct {
	mu sync.Mutex

	tracks       []domain.TrackStub
	tracksErr    error
	artists      map[string]domain.CatalogArtist // by ID
	artistErr    error
	searchHits   map[string][]domain.CatalogArtist // by query
	searchErr    map[string]error
	searchPanic  map[string]bool
	topTracks    []domain.TopTrack
	topTracksErr error

	userID      string
	userErr     error
	playlist    domain.SavedPlaylist
	createErr   error
	addErrAfter int // fail the Nth AddTracks call (1-based), 0 = never
	addErr      error

	calls       int
	trackCalls  int
	searchCalls []string
	addBatches  [][]string
}

var _ ports.CatalogSession = (*mockCatalog)(nil)

func (m *mockCatalog) count() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

func (m *mockCatalog) SearchTracks(_ context.Context, _ string, _ int) ([]domain.TrackStub, error) {
	m.count()
	m.mu.Lock()
	m.trackCalls++
	m.mu.Unlock()
	return m.tracks, m.tracksErr
}

func (m *mockCatalog) SearchArtists(_ context.Context, q string, _ int) ([]domain.CatalogArtist, error) {
	m.count()
	m.mu.Lock()
	m.searchCalls = append(m.searchCalls, q)
	m.mu.Unlock()
	if m.searchPanic[q] {
		panic("search exploded")
	}
	if err := m.searchErr[q]; err != nil {
		return nil, err
	}
	return m.searchHits[q], nil
}

func (m *mockCatalog) GetArtist(_ context.Context, id string) (domain.CatalogArtist, error) {
	m.count()
	if m.artistErr != nil {
		return domain.CatalogArtist{}, m.artistErr
	}
	a, ok := m.artists[id]
	if !ok {
		return domain.CatalogArtist{}, &domain.UpstreamError{Op: "get artist", Status: 404}
	}
	return a, nil
}

func (m *mockCatalog) GetTopTracks(_ context.Context, _ string, _ string) ([]domain.TopTrack, error) {
	m.count()
	return m.topTracks, m.topTracksErr
}

func (m *mockCatalog) CurrentUserID(_ context.Context) (string, error) {
	m.count()
	return m.userID, m.userErr
}

func (m *mockCatalog) CreatePlaylist(_ context.Context, _ string, req domain.PlaylistRequest) (domain.SavedPlaylist, error) {
	m.count()
	if m.createErr != nil {
		return domain.SavedPlaylist{}, m.createErr
	}
	p := m.playlist
	p.Name = req.Name
	return p, nil
}

func (m *mockCatalog) AddTracks(_ context.Context, _ string, uris []string) error {
	m.count()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErrAfter > 0 && len(m.addBatches)+1 == m.addErrAfter {
		return m.addErr
	}
	m.addBatches = append(m.addBatches, append([]string(nil), uris...))
	return nil
}

type mockFactory struct {
	session *mockCatalog
	tokens  []string
}

func (f *mockFactory) ForToken(token string) ports.CatalogSession {
	f.tokens = append(f.tokens, token)
	return f.session
}

type mockCompleter struct {
	out    string
	err    error
	calls  int
	prompt string
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.prompt = prompt
	if m.err != nil {
		return "", m.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.out, nil
}

type mockQueue struct {
	mu      sync.Mutex
	entries []domain.LedgerEntry
}

func (q *mockQueue) Submit(e domain.LedgerEntry) {
	q.mu.Lock()
	q.entries = append(q.entries, e)
	q.mu.Unlock()
}

func strPtr(s string) *string { return &s }
