// Package services holds the application logic behind the HTTP surface.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
	"github.com/ewilliams-labs/genrelay/internal/core/ports"
	"github.com/ewilliams-labs/genrelay/internal/logging"
)

// Orchestrator runs the recommendation pipeline: resolve, top tracks,
// generate, enrich, assemble.
type Orchestrator struct {
	catalogs  ports.CatalogFactory
	resolver  *Resolver
	generator *Generator
	enricher  *Enricher
	logger    *log.Logger
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(catalogs ports.CatalogFactory, resolver *Resolver, generator *Generator, enricher *Enricher, logger *log.Logger) *Orchestrator {
	if enricher == nil {
		enricher = NewEnricher(logger)
	}
	return &Orchestrator{
		catalogs:  catalogs,
		resolver:  resolver,
		generator: generator,
		enricher:  enricher,
		logger:    logging.Component(logger, "orchestrator"),
	}
}

// RecommendGenres answers a single recommendation request. Only resolution
// errors fail the request; top tracks, generation and enrichment degrade to
// empty or null values.
func (o *Orchestrator) RecommendGenres(ctx context.Context, query, accessToken string) (domain.ResponsePayload, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.ResponsePayload{}, fmt.Errorf("%w: query is required", domain.ErrBadRequest)
	}
	if strings.TrimSpace(accessToken) == "" {
		return domain.ResponsePayload{}, fmt.Errorf("%w: access token is required", domain.ErrUnauthorized)
	}

	catalog := o.catalogs.ForToken(accessToken)

	artist, err := o.resolver.Resolve(ctx, catalog, query)
	if err != nil {
		return domain.ResponsePayload{}, err
	}
	o.logger.Info("artist resolved", "query", query, "artist", artist.Name, "id", artist.ID)

	tracks := o.resolver.TopTracks(ctx, catalog, artist.ID)

	recs, diag := o.generator.Generate(ctx, artist)
	if diag != nil {
		o.logger.Warn("recommendations unavailable", "artist", artist.Name, "err", diag)
	}

	enriched := o.enricher.Enrich(ctx, catalog, recs)

	o.logger.Info("recommendations ready", "artist", artist.Name, "tracks", len(tracks), "genres", len(enriched))
	return Assemble(artist, tracks, enriched), nil
}
