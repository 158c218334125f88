package knowledge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rudud-ai/knowledge-engine/internal/observability"
	"github.com/rudud-ai/knowledge-engine/internal/storage"
)

// ErrStoreNotReady indicates the backing data source could not be reached
// and the requested partition has no entries to serve.
var ErrStoreNotReady = errors.New("knowledge store not ready")

// ProductSource supplies catalog products for a tenant.
type ProductSource interface {
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]storage.Product, error)
}

// FAQSource supplies the shared FAQ entries.
type FAQSource interface {
	ListAll(ctx context.Context) ([]storage.FAQ, error)
}

// PolicySource supplies the shared policy documents.
type PolicySource interface {
	ListAll(ctx context.Context) ([]storage.Policy, error)
}

// StoreConfig holds store loading behavior.
type StoreConfig struct {
	// LoadRetries is how many times a failed tenant load is retried.
	LoadRetries int
	// LoadBackoff is the fixed delay between retries.
	LoadBackoff time.Duration
}

// DefaultStoreConfig returns default loading behavior.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		LoadRetries: 3,
		LoadBackoff: 2 * time.Second,
	}
}

// Store is the tenant-partitioned, mutable knowledge collection. Products
// are partitioned by tenant and fully replaced on reload; FAQ and policy
// entries are shared across tenants and populated once at startup.
//
// All mutations happen under one mutex; reads copy entry slices out so
// scoring and ranking never hold the lock.
type Store struct {
	mu      sync.RWMutex
	tenants map[uuid.UUID][]Entry
	loaded  map[uuid.UUID]bool
	statics []Entry

	products ProductSource
	faqs     FAQSource
	policies PolicySource

	logger *observability.Logger
	config StoreConfig
}

// NewStore creates a knowledge store over the given data sources.
func NewStore(products ProductSource, faqs FAQSource, policies PolicySource, logger *observability.Logger, cfg StoreConfig) *Store {
	if cfg.LoadRetries <= 0 {
		cfg.LoadRetries = 3
	}
	if cfg.LoadBackoff <= 0 {
		cfg.LoadBackoff = 2 * time.Second
	}
	return &Store{
		tenants:  make(map[uuid.UUID][]Entry),
		loaded:   make(map[uuid.UUID]bool),
		products: products,
		faqs:     faqs,
		policies: policies,
		logger:   logger,
		config:   cfg,
	}
}

// LoadStatics populates the shared FAQ and policy entries. Called once at
// process start; a failure leaves the statics empty but the store usable.
func (s *Store) LoadStatics(ctx context.Context) error {
	var entries []Entry

	if s.faqs != nil {
		faqs, err := s.faqs.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("load faqs: %w", err)
		}
		for _, f := range faqs {
			entries = append(entries, NewFAQEntry(f))
		}
	}

	if s.policies != nil {
		policies, err := s.policies.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("load policies: %w", err)
		}
		for _, p := range policies {
			entries = append(entries, NewPolicyEntry(p))
		}
	}

	s.mu.Lock()
	s.statics = entries
	s.mu.Unlock()

	s.logger.Info().Int("entries", len(entries)).Msg("Loaded shared FAQ/policy entries")
	return nil
}

// EnsureTenant lazily loads the tenant's products on first use. Subsequent
// calls are cheap reads. A load failure after all retries returns
// ErrStoreNotReady; callers degrade to empty results.
func (s *Store) EnsureTenant(ctx context.Context, tenantID uuid.UUID) error {
	s.mu.RLock()
	ready := s.loaded[tenantID]
	s.mu.RUnlock()
	if ready {
		return nil
	}
	return s.ReloadTenant(ctx, tenantID)
}

// ReloadTenant fully replaces the tenant's product partition: old entries
// are deleted and fresh ones inserted in one critical section, so readers
// never observe a half-replaced partition.
func (s *Store) ReloadTenant(ctx context.Context, tenantID uuid.UUID) error {
	if tenantID == uuid.Nil {
		return storage.ErrInvalidTenant
	}

	products, err := s.fetchWithRetry(ctx, tenantID)
	if err != nil {
		s.logger.Warn().
			Str("tenant_id", tenantID.String()).
			Err(err).
			Msg("Tenant product load failed, store not ready for tenant")
		return fmt.Errorf("%w: %v", ErrStoreNotReady, err)
	}

	entries := make([]Entry, 0, len(products))
	for _, p := range products {
		// Load-time isolation check; the pipeline re-checks at query time.
		if p.TenantID != tenantID {
			s.logger.Error().
				Str("tenant_id", tenantID.String()).
				Str("product_id", p.ID.String()).
				Str("owner_tenant", p.TenantID.String()).
				Msg("Dropping product with mismatched tenant at load")
			continue
		}
		entries = append(entries, NewProductEntry(p))
	}

	s.mu.Lock()
	s.tenants[tenantID] = entries
	s.loaded[tenantID] = true
	s.mu.Unlock()

	s.logger.Info().
		Str("tenant_id", tenantID.String()).
		Int("products", len(entries)).
		Msg("Reloaded tenant products")
	return nil
}

// fetchWithRetry queries the product source with fixed-backoff retries.
func (s *Store) fetchWithRetry(ctx context.Context, tenantID uuid.UUID) ([]storage.Product, error) {
	var lastErr error
	for attempt := 0; attempt < s.config.LoadRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.config.LoadBackoff):
			}
		}
		products, err := s.products.ListByTenant(ctx, tenantID)
		if err == nil {
			return products, nil
		}
		lastErr = err
		s.logger.Warn().
			Str("tenant_id", tenantID.String()).
			Int("attempt", attempt+1).
			Err(err).
			Msg("Product load attempt failed")
	}
	return nil, lastErr
}

// TenantProducts returns a snapshot of the tenant's product entries in
// load order.
func (s *Store) TenantProducts(tenantID uuid.UUID) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.tenants[tenantID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Statics returns a snapshot of the shared FAQ and policy entries.
func (s *Store) Statics() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.statics))
	copy(out, s.statics)
	return out
}

// TenantLoaded reports whether the tenant's partition has been populated.
func (s *Store) TenantLoaded(tenantID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded[tenantID]
}

// Get returns the entry with the given key, searching the tenant partition
// first and the shared statics second.
func (s *Store) Get(tenantID uuid.UUID, key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.tenants[tenantID] {
		if e.Key == key {
			return e, true
		}
	}
	for _, e := range s.statics {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}
