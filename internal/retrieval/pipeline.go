package retrieval

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rudud-ai/knowledge-engine/internal/arabic"
	"github.com/rudud-ai/knowledge-engine/internal/knowledge"
	"github.com/rudud-ai/knowledge-engine/internal/observability"
	"github.com/rudud-ai/knowledge-engine/internal/storage"
)

// fastPathScore is assigned to every product surfaced by the general
// inventory fast path: broad browsing requests should surface breadth, not
// a scored subset.
const fastPathScore = 100.0

// orderResultScore is the fixed score for order-lookup results, which are
// ordered by recency rather than lexical relevance.
const orderResultScore = 10.0

// generalInventoryPhrases are curated normalized phrasings of "what do you
// have" style browsing requests.
var generalInventoryPhrases = []string{
	"عندك ايه",
	"عندكم ايه",
	"ايه المنتجات",
	"ايه اللي عندك",
	"ايه اللي عندكم",
	"اعرض المنتجات",
	"وريني المنتجات",
	"كل المنتجات",
	"المنتجات المتاحه",
	"what products do you have",
	"show me your products",
}

// shippingKeywords select FAQ/policy entries about delivery.
var shippingKeywords = []string{
	"شحن", "توصيل", "استلام", "ميعاد", "shipping", "delivery",
}

// complaintKeywords select policy entries about returns and warranty.
var complaintKeywords = []string{
	"استرجاع", "استبدال", "مرتجع", "ضمان", "شكوي", "return", "refund", "warranty",
}

// OrderSource supplies a customer's recent orders.
type OrderSource interface {
	ListRecentByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string, limit int) ([]storage.Order, error)
}

// Result is one scored retrieval hit.
type Result struct {
	Entry knowledge.Entry
	Score float64
}

// Config holds pipeline limits.
type Config struct {
	// MaxResults caps the returned result list.
	MaxResults int
	// ProductTopK caps scored (non-fast-path) product search results.
	ProductTopK int
	// RecentOrderSpan is how many recent orders an order-status query pulls.
	RecentOrderSpan int
}

// DefaultConfig returns default pipeline limits.
func DefaultConfig() Config {
	return Config{
		MaxResults:      5,
		ProductTopK:     3,
		RecentOrderSpan: 5,
	}
}

// Pipeline dispatches queries to intent-specific retrieval strategies,
// enforces tenant isolation, ranks, and truncates. Retrieval is best
// effort: internal errors degrade to fewer results, never to a caller
// visible failure.
type Pipeline struct {
	store  *knowledge.Store
	orders OrderSource
	logger *observability.Logger
	config Config
}

// NewPipeline creates a retrieval pipeline over the given store.
func NewPipeline(store *knowledge.Store, orders OrderSource, logger *observability.Logger, cfg Config) *Pipeline {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	if cfg.ProductTopK <= 0 {
		cfg.ProductTopK = 3
	}
	if cfg.RecentOrderSpan <= 0 {
		cfg.RecentOrderSpan = 5
	}
	return &Pipeline{
		store:  store,
		orders: orders,
		logger: logger,
		config: cfg,
	}
}

// Retrieve returns at most MaxResults scored entries for the query, sorted
// by non-increasing score with ties keeping store iteration order.
func (p *Pipeline) Retrieve(ctx context.Context, query string, intent Intent, customerID string, tenantID uuid.UUID) []Result {
	start := time.Now()

	if intent.WantsProducts() {
		if err := p.store.EnsureTenant(ctx, tenantID); err != nil {
			p.logger.Warn().
				Str("tenant_id", tenantID.String()).
				Err(err).
				Msg("Tenant catalog unavailable, degrading to empty results")
			return nil
		}
	}

	var results []Result
	switch intent {
	case IntentProductInquiry, IntentPriceInquiry:
		results = p.searchProducts(query, tenantID)
	case IntentShippingInquiry:
		results = p.searchStatics(query, shippingKeywords, false)
	case IntentOrderStatus:
		results = p.lookupOrders(ctx, customerID, tenantID)
	case IntentComplaint:
		results = p.searchStatics(query, complaintKeywords, true)
	default:
		results = p.searchAll(query, tenantID)
	}

	results = p.enforceTenant(results, tenantID)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > p.config.MaxResults {
		results = results[:p.config.MaxResults]
	}

	p.logger.Debug().
		Str("tenant_id", tenantID.String()).
		Str("intent", string(intent)).
		Int("results", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("Retrieval complete")
	return results
}

// searchProducts handles product and price intents. Broad browsing queries
// take the fast path and return every tenant product with a fixed high
// score; everything else is scored and truncated to the top K.
func (p *Pipeline) searchProducts(query string, tenantID uuid.UUID) []Result {
	entries := p.store.TenantProducts(tenantID)
	if len(entries) == 0 {
		return nil
	}

	if isGeneralInventoryQuery(query) {
		results := make([]Result, 0, len(entries))
		for _, e := range entries {
			results = append(results, Result{Entry: e, Score: fastPathScore})
			if len(results) >= p.config.MaxResults {
				break
			}
		}
		return results
	}

	terms := arabic.Tokenize(query)
	var results []Result
	for _, e := range entries {
		if score := ScoreEntry(e, query, terms); score > 0 {
			results = append(results, Result{Entry: e, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > p.config.ProductTopK {
		results = results[:p.config.ProductTopK]
	}
	return results
}

// searchStatics scores shared FAQ/policy entries that contain at least one
// of the given keywords. policiesOnly restricts the candidate set to
// policy entries.
func (p *Pipeline) searchStatics(query string, keywords []string, policiesOnly bool) []Result {
	terms := arabic.Tokenize(query)

	var results []Result
	for _, e := range p.store.Statics() {
		if policiesOnly && e.Kind != knowledge.KindPolicy {
			continue
		}
		if !containsAnyKeyword(e.Text, keywords) {
			continue
		}
		// Keyword-selected entries are always relevant; lexical overlap
		// with the query only refines their order.
		score := Score(e.Text, keywords) + Score(e.Text, terms)
		results = append(results, Result{Entry: e, Score: score})
	}
	return results
}

// lookupOrders wraps the customer's recent orders as order-kind results.
func (p *Pipeline) lookupOrders(ctx context.Context, customerID string, tenantID uuid.UUID) []Result {
	if p.orders == nil || customerID == "" {
		return nil
	}

	orders, err := p.orders.ListRecentByCustomer(ctx, tenantID, customerID, p.config.RecentOrderSpan)
	if err != nil {
		p.logger.Warn().
			Str("tenant_id", tenantID.String()).
			Err(err).
			Msg("Order lookup failed")
		return nil
	}

	results := make([]Result, 0, len(orders))
	for _, o := range orders {
		results = append(results, Result{Entry: knowledge.NewOrderEntry(o), Score: orderResultScore})
	}
	return results
}

// searchAll scores every loaded entry kind for the default intent.
func (p *Pipeline) searchAll(query string, tenantID uuid.UUID) []Result {
	terms := arabic.Tokenize(query)

	var results []Result
	for _, e := range p.store.TenantProducts(tenantID) {
		if score := ScoreEntry(e, query, terms); score > 0 {
			results = append(results, Result{Entry: e, Score: score})
		}
	}
	for _, e := range p.store.Statics() {
		if score := Score(e.Text, terms); score > 0 {
			results = append(results, Result{Entry: e, Score: score})
		}
	}
	return results
}

// enforceTenant drops any product result whose owning tenant differs from
// the querying tenant. Loading already guarantees this; the filter is a
// hard safety net, and a hit here is logged as a violation.
func (p *Pipeline) enforceTenant(results []Result, tenantID uuid.UUID) []Result {
	filtered := results[:0]
	for _, r := range results {
		if r.Entry.Kind == knowledge.KindProduct && r.Entry.Product != nil && r.Entry.Product.TenantID != tenantID {
			p.logger.Error().
				Str("tenant_id", tenantID.String()).
				Str("entry_key", r.Entry.Key).
				Str("owner_tenant", r.Entry.Product.TenantID.String()).
				Msg("Tenant isolation violation, dropping entry")
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// isGeneralInventoryQuery reports whether the normalized query matches a
// curated broad-browsing phrasing.
func isGeneralInventoryQuery(query string) bool {
	normalized := arabic.Normalize(query)
	for _, phrase := range generalInventoryPhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}

func containsAnyKeyword(text string, keywords []string) bool {
	normalized := arabic.Normalize(text)
	for _, kw := range keywords {
		if strings.Contains(normalized, arabic.Normalize(kw)) {
			return true
		}
	}
	return false
}
