package services

import (
	"context"
	"testing"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
)

func genre(name string, artists ...string) domain.GenreRecommendation {
	g := domain.GenreRecommendation{Name: name}
	for _, a := range artists {
		g.Artists = append(g.Artists, domain.RecommendedArtist{ArtistName: a})
	}
	return g
}

func TestEnricher_Enrich(t *testing.T) {
	recs := []domain.GenreRecommendation{
		genre("French House", "Cassius", "Stardust"),
		genre("Nu-Disco", "Breakbot"),
		genre("Empty"),
		genre("Italo", "Gazebo"),
	}

	catalog := &mockCatalog{
		searchHits: map[string][]domain.CatalogArtist{
			"Cassius": {{Name: "Cassius", ImageURLs: []string{"https://img/cassius"}}},
			"Gazebo":  {{Name: "Gazebo"}},
		},
		searchErr: map[string]error{
			"Breakbot": &domain.UpstreamError{Op: "search artists", Status: 503},
		},
	}

	got := NewEnricher(nil).Enrich(context.Background(), catalog, recs)

	if len(got) != len(recs) {
		t.Fatalf("len = %d, want %d", len(got), len(recs))
	}
	for i := range recs {
		if got[i].Name != recs[i].Name {
			t.Errorf("order broken at %d: %q != %q", i, got[i].Name, recs[i].Name)
		}
	}
	if got[0].ImageURL == nil || *got[0].ImageURL != "https://img/cassius" {
		t.Errorf("genre 0 image = %v", got[0].ImageURL)
	}
	for _, i := range []int{1, 2, 3} {
		if got[i].ImageURL != nil {
			t.Errorf("genre %d image = %q, want nil", i, *got[i].ImageURL)
		}
	}
	// No lookup for a genre without artists; exactly one per other genre.
	if n := len(catalog.searchCalls); n != 3 {
		t.Errorf("search calls = %d, want 3", n)
	}
}

func TestEnricher_PanicIsolatedToItem(t *testing.T) {
	recs := []domain.GenreRecommendation{genre("A", "Boom"), genre("B", "Fine")}
	catalog := &mockCatalog{
		searchPanic: map[string]bool{"Boom": true},
		searchHits: map[string][]domain.CatalogArtist{
			"Fine": {{Name: "Fine", ImageURLs: []string{"https://img/fine"}}},
		},
	}

	got := NewEnricher(nil).Enrich(context.Background(), catalog, recs)

	if got[0].ImageURL != nil {
		t.Error("panicking lookup should yield nil image")
	}
	if got[1].ImageURL == nil || *got[1].ImageURL != "https://img/fine" {
		t.Errorf("sibling lookup lost: %v", got[1].ImageURL)
	}
}

func TestEnricher_Empty(t *testing.T) {
	got := NewEnricher(nil).Enrich(context.Background(), &mockCatalog{}, nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty slice", got)
	}
}

func TestAssemble(t *testing.T) {
	artist := domain.ResolvedArtist{ID: "a1", Name: "Daft Punk", ImageURL: strPtr("https://img/daft")}

	got := Assemble(artist, nil, nil)
	if got.SearchedArtist.Name != "Daft Punk" || got.SearchedArtist.ImageURL == nil {
		t.Errorf("searched artist = %+v", got.SearchedArtist)
	}
	if got.TopTracks == nil || got.AIRecommendations == nil {
		t.Error("nil slices must be normalised to empty")
	}

	recs := []domain.EnrichedGenreRecommendation{{GenreRecommendation: domain.GenreRecommendation{Name: "X"}}}
	got = Assemble(artist, []domain.TopTrack{{Name: "Around the World"}}, recs)
	if len(got.TopTracks) != 1 || got.AIRecommendations[0].Artists == nil {
		t.Errorf("payload = %+v", got)
	}
}
