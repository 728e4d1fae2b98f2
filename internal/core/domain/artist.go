package domain

// ResolvedArtist is the canonical catalog identity behind a search query.
type ResolvedArtist struct {
	ID       string
	Name     string
	Genres   []string
	ImageURL *string
}

// SearchedArtist is the projection of ResolvedArtist returned to callers.
type SearchedArtist struct {
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

// TrackStub is a catalog search hit: a track and the artists credited on it.
type TrackStub struct {
	ID        string
	Name      string
	ArtistIDs []string
}

// CatalogArtist is a full artist record as the catalog reports it.
type CatalogArtist struct {
	ID        string
	Name      string
	Genres    []string
	ImageURLs []string
}

// FirstImage returns the catalog's first (largest) image, or nil.
func (a CatalogArtist) FirstImage() *string {
	if len(a.ImageURLs) == 0 || a.ImageURLs[0] == "" {
		return nil
	}
	u := a.ImageURLs[0]
	return &u
}

// Resolved converts a catalog record into the canonical identity.
func (a CatalogArtist) Resolved() ResolvedArtist {
	genres := make([]string, len(a.Genres))
	copy(genres, a.Genres)
	return ResolvedArtist{
		ID:       a.ID,
		Name:     a.Name,
		Genres:   genres,
		ImageURL: a.FirstImage(),
	}
}
