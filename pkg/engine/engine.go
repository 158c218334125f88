// Package engine wires the knowledge store, retrieval pipeline and
// specific-product resolver into one embeddable component.
package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/rudud-ai/knowledge-engine/internal/cache"
	"github.com/rudud-ai/knowledge-engine/internal/config"
	"github.com/rudud-ai/knowledge-engine/internal/knowledge"
	"github.com/rudud-ai/knowledge-engine/internal/llm"
	"github.com/rudud-ai/knowledge-engine/internal/observability"
	"github.com/rudud-ai/knowledge-engine/internal/resolver"
	"github.com/rudud-ai/knowledge-engine/internal/retrieval"
	"github.com/rudud-ai/knowledge-engine/internal/storage"
)

// Engine is the assembled knowledge engine: tenant-scoped retrieval plus
// product disambiguation over a shared in-memory knowledge store.
type Engine struct {
	logger   *observability.Logger
	db       *sql.DB
	cache    cache.Client
	store    *knowledge.Store
	pipeline *retrieval.Pipeline
	resolver *resolver.Resolver
}

// New builds an Engine from configuration. It opens the database, picks
// the cache driver and loads the shared FAQ and policy entries once.
func New(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Engine, error) {
	if logger == nil {
		logger = observability.DefaultLogger()
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	cacheClient, err := newCacheClient(cfg.Cache)
	if err != nil {
		db.Close()
		return nil, err
	}

	products := storage.NewProductRepository(db)
	faqs := storage.NewFAQRepository(db)
	policies := storage.NewPolicyRepository(db)
	orders := storage.NewOrderRepository(db)

	store := knowledge.NewStore(products, faqs, policies, logger, knowledge.StoreConfig{
		LoadRetries: cfg.Retrieval.LoadRetries,
		LoadBackoff: cfg.Retrieval.LoadBackoff,
	})
	if err := store.LoadStatics(ctx); err != nil {
		logger.Warn().Err(err).Msg("Shared FAQ/policy load failed, continuing without statics")
	}

	var completer llm.Completer
	if cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(llm.Config{
			APIKey:     cfg.LLM.APIKey,
			Model:      cfg.LLM.Model,
			BaseURL:    cfg.LLM.BaseURL,
			Timeout:    cfg.LLM.Timeout,
			MaxRetries: cfg.LLM.MaxRetries,
		})
		if err != nil {
			db.Close()
			cacheClient.Close()
			return nil, fmt.Errorf("llm client: %w", err)
		}
		completer = client
	} else {
		logger.Warn().Msg("No LLM API key configured, resolver runs deterministic-only")
	}

	pipeline := retrieval.NewPipeline(store, orders, logger, retrieval.Config{
		MaxResults:      cfg.Retrieval.MaxResults,
		ProductTopK:     cfg.Retrieval.ProductTopK,
		RecentOrderSpan: cfg.Retrieval.RecentOrderSpan,
	})

	res := resolver.NewResolver(store, completer, cacheClient, logger, resolver.Config{
		ConfidenceThreshold: cfg.Resolver.ConfidenceThreshold,
		FallbackThreshold:   cfg.Resolver.FallbackThreshold,
		HistoryTurns:        cfg.Resolver.HistoryTurns,
		CacheTTL:            cfg.Cache.TTL,
	})

	return &Engine{
		logger:   logger,
		db:       db,
		cache:    cacheClient,
		store:    store,
		pipeline: pipeline,
		resolver: res,
	}, nil
}

// newCacheClient selects the cache driver from configuration.
func newCacheClient(cfg config.CacheConfig) (cache.Client, error) {
	switch cfg.Driver {
	case "redis":
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return client, nil
	case "memory", "":
		return cache.NewMemoryClient(cfg.MaxEntries), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// Retrieve returns the ranked knowledge entries for a customer query.
func (e *Engine) Retrieve(ctx context.Context, query string, intent retrieval.Intent, customerID string, tenantID uuid.UUID) []retrieval.Result {
	return e.pipeline.Retrieve(ctx, query, intent, customerID, tenantID)
}

// ResolveProduct collapses an ambiguous product reference to one concrete
// tenant product, or reports that no specific product was meant.
func (e *Engine) ResolveProduct(ctx context.Context, query string, intent retrieval.Intent, customerID string, history []resolver.ConversationTurn, tenantID uuid.UUID) resolver.Resolution {
	return e.resolver.ResolveProduct(ctx, query, intent, customerID, history, tenantID)
}

// ReloadTenant replaces a tenant's catalog partition from the database.
func (e *Engine) ReloadTenant(ctx context.Context, tenantID uuid.UUID) error {
	return e.store.ReloadTenant(ctx, tenantID)
}

// Ping verifies database connectivity.
func (e *Engine) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

// Close releases the database and cache connections.
func (e *Engine) Close() error {
	err := e.db.Close()
	if cerr := e.cache.Close(); err == nil {
		err = cerr
	}
	return err
}
