package resolver

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/rudud-ai/knowledge-engine/internal/arabic"
	"github.com/rudud-ai/knowledge-engine/internal/cache"
	"github.com/rudud-ai/knowledge-engine/internal/knowledge"
	"github.com/rudud-ai/knowledge-engine/internal/llm"
	"github.com/rudud-ai/knowledge-engine/internal/observability"
	"github.com/rudud-ai/knowledge-engine/internal/retrieval"
)

// fuzzyMatchRatio is the share of significant name words that must
// flexibly match for a fuzzy name hit.
const fuzzyMatchRatio = 0.7

// Config holds resolver thresholds.
type Config struct {
	// ConfidenceThreshold is the minimum model confidence accepted as a
	// specific match.
	ConfidenceThreshold float64
	// FallbackThreshold is the minimum deterministic score accepted by the
	// fallback scorer.
	FallbackThreshold float64
	// HistoryTurns is how many conversation turns the prompt includes.
	HistoryTurns int
	// CacheTTL bounds how long a prior choice is reused.
	CacheTTL time.Duration
}

// DefaultConfig returns default resolver thresholds.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.3,
		FallbackThreshold:   defaultFallbackThreshold,
		HistoryTurns:        4,
		CacheTTL:            30 * time.Minute,
	}
}

// Resolver determines whether an ambiguous query means exactly one tenant
// product.
type Resolver struct {
	store     *knowledge.Store
	completer llm.Completer
	choices   *choiceCache
	logger    *observability.Logger
	config    Config
}

// NewResolver creates a specific-product resolver. completer may be nil, in
// which case every resolution takes the deterministic path.
func NewResolver(store *knowledge.Store, completer llm.Completer, cacheClient cache.Client, logger *observability.Logger, cfg Config) *Resolver {
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = 0.3
	}
	if cfg.FallbackThreshold <= 0 {
		cfg.FallbackThreshold = defaultFallbackThreshold
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = 4
	}
	return &Resolver{
		store:     store,
		completer: completer,
		choices:   newChoiceCache(cacheClient, cfg.CacheTTL),
		logger:    logger,
		config:    cfg,
	}
}

// ResolveProduct collapses an ambiguous product reference to one concrete
// product. It never returns an error: model failures, malformed output and
// low confidence all route to the deterministic fallback, and "no specific
// product" is a valid outcome.
func (r *Resolver) ResolveProduct(ctx context.Context, query string, intent retrieval.Intent, customerID string, history []ConversationTurn, tenantID uuid.UUID) Resolution {
	if err := r.store.EnsureTenant(ctx, tenantID); err != nil {
		r.logger.Warn().
			Str("tenant_id", tenantID.String()).
			Err(err).
			Msg("Tenant catalog unavailable for resolution")
		return Resolution{Reasoning: "catalog unavailable"}
	}

	candidates := r.buildCandidates(tenantID)
	if len(candidates) == 0 {
		return Resolution{Reasoning: "no products for tenant"}
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	cacheKey := r.choices.key(query, names, history)

	if cached := r.choices.get(ctx, cacheKey); cached != nil {
		r.logger.Debug().
			Str("tenant_id", tenantID.String()).
			Str("customer_id", customerID).
			Msg("Using cached disambiguation choice")
		return r.resolutionFromChoice(query, history, candidates, cached.ProductName, cached.Confidence, cached.Reasoning)
	}

	choice, err := r.askModel(ctx, query, candidates, history)
	if err != nil {
		r.logger.Warn().
			Str("tenant_id", tenantID.String()).
			Err(err).
			Msg("Model disambiguation failed, using deterministic fallback")
		return fallbackResolve(query, history, candidates, r.config.FallbackThreshold)
	}

	r.choices.put(ctx, cacheKey, cachedChoice{
		ProductName: choice.ProductName,
		Confidence:  choice.Confidence,
		Reasoning:   choice.Reasoning,
	})

	return r.resolutionFromChoice(query, history, candidates, choice.ProductName, choice.Confidence, choice.Reasoning)
}

// buildCandidates snapshots the tenant's products as prompt candidates.
func (r *Resolver) buildCandidates(tenantID uuid.UUID) []candidate {
	entries := r.store.TenantProducts(tenantID)
	candidates := make([]candidate, 0, len(entries))
	for _, e := range entries {
		if e.Kind != knowledge.KindProduct || e.Product == nil {
			continue
		}
		candidates = append(candidates, candidate{
			entry:       e,
			name:        e.Product.Name,
			description: e.Product.Description,
			price:       e.Product.Price,
		})
	}
	return candidates
}

// askModel performs the prompt/complete/parse round trip.
func (r *Resolver) askModel(ctx context.Context, query string, candidates []candidate, history []ConversationTurn) (*modelChoice, error) {
	if r.completer == nil {
		return nil, errNoChoice
	}

	prompt := buildPrompt(query, candidates, history, r.config.HistoryTurns)
	raw, err := r.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseChoice(raw)
}

// resolutionFromChoice converts a stored or fresh model choice into a
// Resolution, falling back deterministically when the choice is
// unconfident or names a product the store cannot match.
func (r *Resolver) resolutionFromChoice(query string, history []ConversationTurn, candidates []candidate, productName *string, confidence float64, reasoning string) Resolution {
	if productName == nil || confidence < r.config.ConfidenceThreshold {
		if confidence >= r.config.ConfidenceThreshold {
			// Confident explicit "no product" is a final answer.
			return Resolution{Confidence: confidence, Reasoning: reasoning}
		}
		return fallbackResolve(query, history, candidates, r.config.FallbackThreshold)
	}

	matched := matchCandidate(*productName, candidates)
	if matched == nil {
		return fallbackResolve(query, history, candidates, r.config.FallbackThreshold)
	}

	entry := matched.entry
	return Resolution{
		Product:    &entry,
		Confidence: confidence,
		IsSpecific: true,
		Reasoning:  reasoning,
	}
}

// matchCandidate finds the candidate for a model-chosen name: exact
// normalized match first, then a fuzzy match requiring at least 70% of the
// candidate's significant name words to flexibly match the chosen name.
func matchCandidate(name string, candidates []candidate) *candidate {
	target := arabic.Normalize(name)

	for i := range candidates {
		if arabic.Normalize(candidates[i].name) == target {
			return &candidates[i]
		}
	}

	targetTokens := strings.Fields(target)
	for i := range candidates {
		words := significantWords(candidates[i].name)
		if len(words) == 0 {
			continue
		}
		matched := 0
		for _, w := range words {
			for _, tt := range targetTokens {
				if flexibleTokenMatch(w, tt) {
					matched++
					break
				}
			}
		}
		if float64(matched)/float64(len(words)) >= fuzzyMatchRatio {
			return &candidates[i]
		}
	}
	return nil
}

// significantWords returns the normalized name words longer than two runes.
func significantWords(name string) []string {
	var words []string
	for _, w := range strings.Fields(arabic.Normalize(name)) {
		if utf8.RuneCountInString(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}
