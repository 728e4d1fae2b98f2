package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
	"github.com/ewilliams-labs/genrelay/internal/core/ports"
	"github.com/ewilliams-labs/genrelay/internal/logging"
)

// DefaultGenerationTimeout bounds a single completion call.
const DefaultGenerationTimeout = 25 * time.Second

// Requested shape of the model's answer. Advisory only: the output is not
// truncated or padded to match.
const (
	requestedGenres          = 3
	requestedArtistsPerGenre = 6
)

// ErrMalformedRecommendations is the diagnostic for unparseable model output.
var ErrMalformedRecommendations = errors.New("service: malformed recommendations")

// Generator asks the generative model for genre recommendations.
type Generator struct {
	completer ports.Completer
	timeout   time.Duration
	logger    *log.Logger
}

func NewGenerator(completer ports.Completer, timeout time.Duration, logger *log.Logger) *Generator {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &Generator{
		completer: completer,
		timeout:   timeout,
		logger:    logging.Component(logger, "generator"),
	}
}

// Generate never fails the request. It returns the parsed recommendations, or
// an empty slice together with a diagnostic error describing what went wrong.
func (g *Generator) Generate(ctx context.Context, artist domain.ResolvedArtist) ([]domain.GenreRecommendation, error) {
	if g.completer == nil {
		return []domain.GenreRecommendation{}, errors.New("service: no completer configured")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := BuildPrompt(artist)
	g.logger.Debug("requesting recommendations", "artist", artist.Name, "genres", len(artist.Genres))

	raw, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		return []domain.GenreRecommendation{}, fmt.Errorf("service: completion: %w", err)
	}

	recs, err := ParseRecommendations(raw)
	if err != nil {
		return []domain.GenreRecommendation{}, err
	}
	return recs, nil
}

// BuildPrompt renders the instruction sent to the model. The known-genres
// clause is only included when the artist has genres.
func BuildPrompt(artist domain.ResolvedArtist) string {
	var b strings.Builder

	fmt.Fprintf(&b, "A listener enjoys the music of %s. ", artist.Name)
	fmt.Fprintf(&b, "Recommend exactly %d music genres they are likely to enjoy next. ", requestedGenres)
	fmt.Fprintf(&b, "Do not recommend %s itself", artist.Name)
	if len(artist.Genres) > 0 {
		fmt.Fprintf(&b, ", and do not recommend any of the genres %s is already known for: %s", artist.Name, strings.Join(artist.Genres, ", "))
	}
	b.WriteString(".\n")

	fmt.Fprintf(&b, "For each genre, write a one-sentence description and list %d artists who represent it. ", requestedArtistsPerGenre)
	b.WriteString("Choose artists from a wide range of countries and cultures. ")
	b.WriteString("Write each artist name exactly as published, with no country, nationality or other annotation in the name.\n")
	b.WriteString("For every artist include the Spotify track ID of one representative track as trackId.\n")
	b.WriteString("Respond with JSON only, exactly in this shape:\n")
	b.WriteString(`{"genres":[{"name":"string","description":"string","artists":[{"artistName":"string","trackId":"string"}]}]}`)

	return b.String()
}

type wireRecommendations struct {
	Genres *[]wireGenre `json:"genres"`
}

type wireGenre struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Artists     []wireArtist `json:"artists"`
}

type wireArtist struct {
	ArtistName string `json:"artistName"`
	TrackID    string `json:"trackId"`
}

// ParseRecommendations decodes model output into typed recommendations.
// Markdown code fences are unwrapped first. Genres without a name and artist
// entries without a name are dropped; a missing genres array is an error.
func ParseRecommendations(raw string) ([]domain.GenreRecommendation, error) {
	text := stripCodeFence(raw)

	var wire wireRecommendations
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecommendations, err)
	}
	if wire.Genres == nil {
		return nil, fmt.Errorf("%w: missing genres array", ErrMalformedRecommendations)
	}

	out := make([]domain.GenreRecommendation, 0, len(*wire.Genres))
	for _, g := range *wire.Genres {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			continue
		}
		artists := make([]domain.RecommendedArtist, 0, len(g.Artists))
		for _, a := range g.Artists {
			artistName := strings.TrimSpace(a.ArtistName)
			if artistName == "" {
				continue
			}
			artists = append(artists, domain.RecommendedArtist{
				ArtistName: artistName,
				TrackID:    domain.ParseTrackID(a.TrackID),
			})
		}
		out = append(out, domain.GenreRecommendation{
			Name:        name,
			Description: strings.TrimSpace(g.Description),
			Artists:     artists,
		})
	}
	return out, nil
}

func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl != -1 {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
