package ports

import (
	"context"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
)

// PlaylistLedger records playlist save attempts.
type PlaylistLedger interface {
	Record(ctx context.Context, e domain.LedgerEntry) error
	Recent(ctx context.Context, limit int) ([]domain.LedgerEntry, error)
}

// LedgerQueue accepts ledger entries for asynchronous recording.
// Submit must not block the caller.
type LedgerQueue interface {
	Submit(e domain.LedgerEntry)
}
