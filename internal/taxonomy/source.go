package taxonomy

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Source loads a taxonomy from some backing store.
type Source interface {
	Load(ctx context.Context) (*Taxonomy, error)
}

// CachedSource wraps a Source with a one-time, idempotent fetch-and-cache.
// Safe for concurrent readers after the first Load. A failed first load is
// cached too: the pipeline must not silently proceed with an empty taxonomy,
// so every subsequent call keeps returning the initialization error.
type CachedSource struct {
	src  Source
	once sync.Once
	tax  *Taxonomy
	err  error
}

// NewCached wraps src with write-once caching.
func NewCached(src Source) *CachedSource {
	return &CachedSource{src: src}
}

// Load returns the cached taxonomy, fetching and validating it on first use.
func (c *CachedSource) Load(ctx context.Context) (*Taxonomy, error) {
	c.once.Do(func() {
		tax, err := c.src.Load(ctx)
		if err != nil {
			c.err = fmt.Errorf("taxonomy init: %w", err)
			return
		}
		if err := tax.Validate(); err != nil {
			c.err = fmt.Errorf("taxonomy init: %w", err)
			return
		}
		c.tax = tax
		log.Info().
			Int("pillars", len(tax.Pillars)).
			Int("indicators", len(tax.Indicators)).
			Int("hotButtons", len(tax.HotButtons)).
			Msg("Taxonomy loaded")
	})
	return c.tax, c.err
}
