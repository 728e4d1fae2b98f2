package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
	"github.com/ewilliams-labs/genrelay/internal/core/ports"
	"github.com/ewilliams-labs/genrelay/internal/logging"
	"github.com/ewilliams-labs/genrelay/internal/match"
)

// weakMatchThreshold is the similarity below which an image lookup hit is
// logged as a probable mismatch.
const weakMatchThreshold = 0.5

// Enricher attaches an artist image to each recommended genre.
type Enricher struct {
	logger *log.Logger
}

func NewEnricher(logger *log.Logger) *Enricher {
	return &Enricher{logger: logging.Component(logger, "enricher")}
}

// Enrich looks up the lead artist of every genre concurrently. Results are
// written by index, so output order always matches input order. A failed
// lookup leaves that genre's image nil; if the stage as a whole fails the
// unenriched recommendations are returned.
func (e *Enricher) Enrich(ctx context.Context, catalog ports.Catalog, recs []domain.GenreRecommendation) (out []domain.EnrichedGenreRecommendation) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("enrichment aborted", "panic", r)
			out = domain.Unenriched(recs)
		}
	}()

	out = make([]domain.EnrichedGenreRecommendation, len(recs))
	var g errgroup.Group
	for i, rec := range recs {
		out[i] = domain.EnrichedGenreRecommendation{GenreRecommendation: rec}
		g.Go(func() error {
			out[i].ImageURL = e.lookupImage(ctx, catalog, rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Warn("enrichment failed", "err", err)
		return domain.Unenriched(recs)
	}
	return out
}

func (e *Enricher) lookupImage(ctx context.Context, catalog ports.Catalog, rec domain.GenreRecommendation) (image *string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("image lookup panicked", "genre", rec.Name, "panic", fmt.Sprint(r))
			image = nil
		}
	}()

	name, ok := rec.LeadArtist()
	if !ok {
		return nil
	}

	hits, err := catalog.SearchArtists(ctx, name, 1)
	if err != nil {
		e.logger.Warn("image lookup failed", "genre", rec.Name, "artist", name, "err", err)
		return nil
	}
	if len(hits) == 0 {
		e.logger.Debug("no catalog match", "genre", rec.Name, "artist", name)
		return nil
	}

	if score := match.Similarity(name, hits[0].Name); score < weakMatchThreshold {
		e.logger.Debug("weak catalog match", "artist", name, "matched", hits[0].Name, "score", score)
	}
	return hits[0].FirstImage()
}
