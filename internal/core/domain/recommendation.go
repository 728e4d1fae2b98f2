package domain

// RecommendedArtist is one artist suggested inside a genre.
type RecommendedArtist struct {
	ArtistName string `json:"artistName"`
	TrackID    string `json:"trackId,omitempty"`
}

// GenreRecommendation is a genre suggested by the generative model.
type GenreRecommendation struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Artists     []RecommendedArtist `json:"artists"`
}

// LeadArtist returns the first listed artist name, if any.
func (g GenreRecommendation) LeadArtist() (string, bool) {
	if len(g.Artists) == 0 || g.Artists[0].ArtistName == "" {
		return "", false
	}
	return g.Artists[0].ArtistName, true
}

// EnrichedGenreRecommendation is a GenreRecommendation with a catalog image attached.
// A nil ImageURL is a valid final value.
type EnrichedGenreRecommendation struct {
	GenreRecommendation
	ImageURL *string `json:"imageUrl"`
}

// Unenriched wraps recommendations with no image attached.
func Unenriched(recs []GenreRecommendation) []EnrichedGenreRecommendation {
	out := make([]EnrichedGenreRecommendation, len(recs))
	for i, r := range recs {
		out[i] = EnrichedGenreRecommendation{GenreRecommendation: r}
	}
	return out
}

// ResponsePayload is the single response built for one recommendation request.
type ResponsePayload struct {
	SearchedArtist    SearchedArtist                `json:"searchedArtist"`
	TopTracks         []TopTrack                    `json:"topTracks"`
	AIRecommendations []EnrichedGenreRecommendation `json:"aiRecommendations"`
}
