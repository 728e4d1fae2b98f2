package spotify

import "github.com/ewilliams-labs/genrelay/internal/core/domain"

func mapArtistToDomain(sa spotifyArtist) domain.CatalogArtist {
	images := make([]string, 0, len(sa.Images))
	for _, img := range sa.Images {
		if img.URL != "" {
			images = append(images, img.URL)
		}
	}
	genres := sa.Genres
	if genres == nil {
		genres = []string{}
	}
	return domain.CatalogArtist{
		ID:        sa.ID,
		Name:      sa.Name,
		Genres:    genres,
		ImageURLs: images,
	}
}

func mapTrackStubToDomain(st spotifyTrack) domain.TrackStub {
	ids := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		if a.ID != "" {
			ids = append(ids, a.ID)
		}
	}
	return domain.TrackStub{ID: st.ID, Name: st.Name, ArtistIDs: ids}
}

// mapTopTrackToDomain keeps a null preview URL as nil.
func mapTopTrackToDomain(st spotifyTrack) domain.TopTrack {
	var preview *string
	if st.PreviewURL != nil && *st.PreviewURL != "" {
		p := *st.PreviewURL
		preview = &p
	}
	return domain.TopTrack{
		Name:       st.Name,
		URL:        st.ExternalURLs.Spotify,
		PreviewURL: preview,
	}
}

func mapPlaylistToDomain(sp spotifyPlaylist, req domain.PlaylistRequest) domain.SavedPlaylist {
	name := sp.Name
	if name == "" {
		name = req.Name
	}
	return domain.SavedPlaylist{
		ID:              sp.ID,
		URL:             sp.ExternalURLs.Spotify,
		Name:            name,
		TracksRequested: len(req.TrackIDs),
	}
}
