package services

import "github.com/ewilliams-labs/genrelay/internal/core/domain"

// Assemble builds the response payload. Nil slices become empty so the
// encoded arrays are never null.
func Assemble(artist domain.ResolvedArtist, tracks []domain.TopTrack, recs []domain.EnrichedGenreRecommendation) domain.ResponsePayload {
	if tracks == nil {
		tracks = []domain.TopTrack{}
	}
	if recs == nil {
		recs = []domain.EnrichedGenreRecommendation{}
	}
	for i := range recs {
		if recs[i].Artists == nil {
			recs[i].Artists = []domain.RecommendedArtist{}
		}
	}
	return domain.ResponsePayload{
		SearchedArtist: domain.SearchedArtist{
			Name:     artist.Name,
			ImageURL: artist.ImageURL,
		},
		TopTracks:         tracks,
		AIRecommendations: recs,
	}
}
