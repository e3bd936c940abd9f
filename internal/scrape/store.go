package scrape

import (
	"context"
	"time"

	"github.com/pfrederiksen/wa-dockets/internal/docket"
	"github.com/pfrederiksen/wa-dockets/internal/opinions"
	"github.com/pfrederiksen/wa-dockets/internal/storage"
)

// Store is where parsed cases and opinions are saved
type Store interface {
	Begin(ctx context.Context, division int) (Batch, error)
	BeginOpinions(ctx context.Context) (OpinionBatch, error)
	LastProcessedDate(ctx context.Context, division int) (time.Time, bool, error)
}

// Batch holds the writes for one docket page
type Batch interface {
	SaveCase(ctx context.Context, rec docket.CaseRecord) error
	MarkProcessed(ctx context.Context, date time.Time) error
	Commit() error
	Rollback() error
}

// OpinionBatch holds the writes for one opinion release page
type OpinionBatch interface {
	SaveOpinion(ctx context.Context, op opinions.Opinion) (storage.OpinionResult, error)
	Commit() error
	Rollback() error
}

// SQLStore adapts a storage.Store to Store
type SQLStore struct {
	*storage.Store
}

// Begin starts a storage batch
func (s SQLStore) Begin(ctx context.Context, division int) (Batch, error) {
	b, err := s.Store.Begin(ctx, division)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// BeginOpinions starts a storage batch for opinion updates
func (s SQLStore) BeginOpinions(ctx context.Context) (OpinionBatch, error) {
	b, err := s.Store.Begin(ctx, 0)
	if err != nil {
		return nil, err
	}
	return b, nil
}
