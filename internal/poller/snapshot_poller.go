package poller

import (
	"context"
	"log"
	"time"

	"github.com/fjod/xpawto-store/internal/service"
)

// CatalogReader is the catalog read the poller drives. A successful read
// refreshes the stored snapshot as a side effect.
type CatalogReader interface {
	ListProducts(ctx context.Context) (service.Listing, error)
}

// SnapshotPoller re-reads the catalog on an interval so the fallback
// snapshot stays fresh on a quiet storefront.
type SnapshotPoller struct {
	catalog  CatalogReader
	interval time.Duration
}

func NewSnapshotPoller(catalog CatalogReader, interval time.Duration) *SnapshotPoller {
	return &SnapshotPoller{catalog: catalog, interval: interval}
}

// Run refreshes once immediately, then on every tick until ctx is done.
func (p *SnapshotPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.refresh(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *SnapshotPoller) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	listing, err := p.catalog.ListProducts(ctx)
	if err != nil {
		log.Printf("catalog snapshot refresh failed: %v", err)
		return
	}
	if listing.Stale {
		log.Printf("catalog snapshot refresh served stale data, product store unreachable")
	}
}
