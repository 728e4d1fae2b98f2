// Package worker records playlist ledger entries in the background.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
	"github.com/ewilliams-labs/genrelay/internal/core/ports"
	"github.com/ewilliams-labs/genrelay/internal/logging"
)

// recordTimeout bounds a single ledger write.
const recordTimeout = 5 * time.Second

// Pool drains ledger entries into a PlaylistLedger using a fixed set of workers.
type Pool struct {
	ledger  ports.PlaylistLedger
	jobs    chan domain.LedgerEntry
	workers int
	logger  *log.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPool creates a worker pool with the given worker count and queue size.
func NewPool(ledger ports.PlaylistLedger, workers int, queueSize int, logger *log.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{
		ledger:  ledger,
		jobs:    make(chan domain.LedgerEntry, queueSize),
		workers: workers,
		logger:  logging.Component(logger, "worker"),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for e := range p.jobs {
				p.process(e)
			}
		}()
	}
}

// Stop closes the queue and waits for queued entries to be written.
// It is safe to call more than once.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Submit queues an entry without blocking. Entries are dropped when the
// queue is full or the pool is stopped.
func (p *Pool) Submit(e domain.LedgerEntry) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn("pool stopped, dropping ledger entry", "id", e.ID)
		return
	}
	select {
	case p.jobs <- e:
	default:
		p.logger.Warn("queue full, dropping ledger entry", "id", e.ID, "playlist", e.PlaylistID)
	}
}

func (p *Pool) process(e domain.LedgerEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := p.ledger.Record(ctx, e); err != nil {
		p.logger.Warn("failed to record ledger entry", "id", e.ID, "err", err)
		return
	}
	p.logger.Debug("ledger entry recorded", "id", e.ID, "status", e.Status)
}
