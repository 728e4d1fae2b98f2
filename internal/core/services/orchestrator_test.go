package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
)

const daftPunkID = "4tZwfgrHOc3mvqYlEYSvVi"

func daftPunkCatalog() *mockCatalog {
	return &mockCatalog{
		tracks: []domain.TrackStub{{ID: "0DiWol3AO6WpXZgp0goxAV", Name: "One More Time", ArtistIDs: []string{daftPunkID}}},
		artists: map[string]domain.CatalogArtist{
			daftPunkID: {
				ID:        daftPunkID,
				Name:      "Daft Punk",
				Genres:    []string{"electronic", "filter house"},
				ImageURLs: []string{"https://img/daft"},
			},
		},
		topTracks: []domain.TopTrack{
			{Name: "Get Lucky", URL: "https://open.spotify.com/track/1"},
			{Name: "One More Time", URL: "https://open.spotify.com/track/2"},
		},
		searchHits: map[string][]domain.CatalogArtist{
			"Cassius":  {{Name: "Cassius", ImageURLs: []string{"https://img/cassius"}}},
			"Breakbot": {{Name: "Breakbot", ImageURLs: []string{"https://img/breakbot"}}},
		},
	}
}

const daftPunkCompletion = `{"genres":[
 {"name":"French House","description":"Filtered disco loops.","artists":[{"artistName":"Cassius","trackId":"aaa111"}]},
 {"name":"Nu-Disco","description":"Modern disco.","artists":[{"artistName":"Breakbot","trackId":"bbb222"}]},
 {"name":"Synth-Funk","description":"Talkbox grooves.","artists":[{"artistName":"Dam-Funk"}]}
]}`

func newTestOrchestrator(catalog *mockCatalog, completer *mockCompleter) (*Orchestrator, *mockFactory) {
	f := &mockFactory{session: catalog}
	o := NewOrchestrator(f, NewResolver("US", nil), NewGenerator(completer, time.Second, nil), NewEnricher(nil), nil)
	return o, f
}

func TestOrchestrator_RecommendGenres(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		token         string
		catalog       func() *mockCatalog
		completer     *mockCompleter
		wantErr       error
		wantCalls     int // -1 skips the check
		wantCompleter int
		check         func(t *testing.T, p domain.ResponsePayload)
	}{
		{
			name:          "happy path",
			query:         "one more time",
			token:         "tok",
			catalog:       daftPunkCatalog,
			completer:     &mockCompleter{out: daftPunkCompletion},
			wantCalls:     -1,
			wantCompleter: 1,
			check: func(t *testing.T, p domain.ResponsePayload) {
				if p.SearchedArtist.Name != "Daft Punk" {
					t.Errorf("artist = %q", p.SearchedArtist.Name)
				}
				if len(p.TopTracks) != 2 || p.TopTracks[0].Name != "Get Lucky" {
					t.Errorf("top tracks = %+v", p.TopTracks)
				}
				if len(p.AIRecommendations) != 3 {
					t.Fatalf("genres = %d, want 3", len(p.AIRecommendations))
				}
				if img := p.AIRecommendations[0].ImageURL; img == nil || *img != "https://img/cassius" {
					t.Errorf("genre 0 image = %v", img)
				}
				if p.AIRecommendations[2].ImageURL != nil {
					t.Error("unmatched lead artist should have nil image")
				}
			},
		},
		{
			name:          "empty query makes no upstream calls",
			query:         "   ",
			token:         "tok",
			catalog:       daftPunkCatalog,
			completer:     &mockCompleter{out: daftPunkCompletion},
			wantErr:       domain.ErrBadRequest,
			wantCalls:     0,
			wantCompleter: 0,
		},
		{
			name:          "missing token",
			query:         "daft punk",
			catalog:       daftPunkCatalog,
			completer:     &mockCompleter{},
			wantErr:       domain.ErrUnauthorized,
			wantCalls:     0,
			wantCompleter: 0,
		},
		{
			name:  "unresolvable query",
			query: "zzzz",
			token: "tok",
			catalog: func() *mockCatalog {
				return &mockCatalog{}
			},
			completer:     &mockCompleter{},
			wantErr:       domain.ErrNotFound,
			wantCalls:     2,
			wantCompleter: 0,
		},
		{
			name:  "expired token",
			query: "daft punk",
			token: "stale",
			catalog: func() *mockCatalog {
				return &mockCatalog{tracksErr: &domain.UpstreamError{Op: "search tracks", Status: 401}}
			},
			completer:     &mockCompleter{},
			wantErr:       domain.ErrCredentialExpired,
			wantCalls:     1,
			wantCompleter: 0,
		},
		{
			name:          "non-json model output",
			query:         "one more time",
			token:         "tok",
			catalog:       daftPunkCatalog,
			completer:     &mockCompleter{out: "Here are three genres: house, disco and funk."},
			wantCalls:     -1,
			wantCompleter: 1,
			check: func(t *testing.T, p domain.ResponsePayload) {
				if p.SearchedArtist.Name != "Daft Punk" || len(p.TopTracks) != 2 {
					t.Errorf("artist and tracks should survive: %+v", p)
				}
				if p.AIRecommendations == nil || len(p.AIRecommendations) != 0 {
					t.Errorf("recommendations = %v, want empty", p.AIRecommendations)
				}
			},
		},
		{
			name:  "top tracks failure is soft",
			query: "one more time",
			token: "tok",
			catalog: func() *mockCatalog {
				c := daftPunkCatalog()
				c.topTracksErr = &domain.UpstreamError{Op: "top tracks", Status: 500}
				return c
			},
			completer:     &mockCompleter{out: daftPunkCompletion},
			wantCalls:     -1,
			wantCompleter: 1,
			check: func(t *testing.T, p domain.ResponsePayload) {
				if p.TopTracks == nil || len(p.TopTracks) != 0 {
					t.Errorf("top tracks = %v, want empty", p.TopTracks)
				}
				if len(p.AIRecommendations) != 3 {
					t.Errorf("genres = %d", len(p.AIRecommendations))
				}
			},
		},
		{
			name:  "one failed enrichment",
			query: "one more time",
			token: "tok",
			catalog: func() *mockCatalog {
				c := daftPunkCatalog()
				c.searchErr = map[string]error{"Breakbot": errors.New("reset by peer")}
				return c
			},
			completer:     &mockCompleter{out: daftPunkCompletion},
			wantCalls:     -1,
			wantCompleter: 1,
			check: func(t *testing.T, p domain.ResponsePayload) {
				if p.AIRecommendations[0].ImageURL == nil {
					t.Error("genre 0 should keep its image")
				}
				if p.AIRecommendations[1].ImageURL != nil {
					t.Error("genre 1 should have nil image")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			catalog := tc.catalog()
			o, f := newTestOrchestrator(catalog, tc.completer)

			got, err := o.RecommendGenres(context.Background(), tc.query, tc.token)

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantCalls >= 0 && catalog.calls != tc.wantCalls {
				t.Errorf("catalog calls = %d, want %d", catalog.calls, tc.wantCalls)
			}
			if tc.completer.calls != tc.wantCompleter {
				t.Errorf("completer calls = %d, want %d", tc.completer.calls, tc.wantCompleter)
			}
			if tc.wantCalls == 0 && len(f.tokens) != 0 {
				t.Error("catalog session should not be created")
			}
			if tc.check != nil {
				tc.check(t, got)
			}
		})
	}
}

func TestOrchestrator_ResponseShape(t *testing.T) {
	catalog := daftPunkCatalog()
	catalog.topTracks = nil
	o, _ := newTestOrchestrator(catalog, &mockCompleter{out: "nope"})

	got, err := o.RecommendGenres(context.Background(), "one more time", "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"searchedArtist", "topTracks", "aiRecommendations"} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing key %q in %s", k, raw)
		}
	}
	if string(m["topTracks"]) != "[]" || string(m["aiRecommendations"]) != "[]" {
		t.Errorf("empty arrays must encode as []: %s", raw)
	}
}

func TestOrchestrator_DaftPunkArtistFallback(t *testing.T) {
	catalog := &mockCatalog{
		searchHits: map[string][]domain.CatalogArtist{
			"Daft Punk": {{ID: daftPunkID, Name: "Daft Punk", Genres: []string{"electronic"}}},
		},
	}
	completer := &mockCompleter{out: `{"genres":[]}`}
	o, _ := newTestOrchestrator(catalog, completer)

	got, err := o.RecommendGenres(context.Background(), "Daft Punk", "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SearchedArtist.Name != "Daft Punk" {
		t.Errorf("artist = %q", got.SearchedArtist.Name)
	}
	if catalog.trackCalls != 1 {
		t.Errorf("track search calls = %d, want 1", catalog.trackCalls)
	}

	want := "Do not recommend Daft Punk itself, and do not recommend any of the genres Daft Punk is already known for: electronic."
	if !strings.Contains(completer.prompt, want) {
		t.Errorf("prompt exclusion clause missing:\n%s", completer.prompt)
	}
}

func TestOrchestrator_StableShape(t *testing.T) {
	o, _ := newTestOrchestrator(daftPunkCatalog(), &mockCompleter{out: daftPunkCompletion})

	first, err := o.RecommendGenres(context.Background(), "one more time", "tok")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := o.RecommendGenres(context.Background(), "one more time", "tok")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("payloads differ:\n%s\n%s", a, b)
	}
}
