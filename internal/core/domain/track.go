package domain

// MaxTopTracks caps the number of top tracks returned for an artist.
const MaxTopTracks = 5

// TopTrack is a lightweight projection of a catalog track.
type TopTrack struct {
	Name       string  `json:"name"`
	URL        string  `json:"url"`
	PreviewURL *string `json:"previewUrl"`
}
