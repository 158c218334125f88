package resolver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/rudud-ai/knowledge-engine/internal/cache"
)

// cachedChoice is the stored outcome of a prior resolution. A nil
// ProductName records an explicit "no product found", which is just as
// reusable as a positive choice.
type cachedChoice struct {
	ProductName *string `json:"product_name"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

// choiceCache wraps the cache client with key derivation and JSON codec
// for disambiguation choices.
type choiceCache struct {
	client cache.Client
	ttl    time.Duration
}

func newChoiceCache(client cache.Client, ttl time.Duration) *choiceCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &choiceCache{client: client, ttl: ttl}
}

// key derives a deterministic cache key from the query, the sorted
// candidate names, and the prior customer messages.
func (c *choiceCache) key(query string, candidateNames []string, history []ConversationTurn) string {
	names := make([]string, len(candidateNames))
	copy(names, candidateNames)
	sort.Strings(names)

	var priorMessages strings.Builder
	for _, turn := range history {
		priorMessages.WriteString(turn.CustomerMessage)
		priorMessages.WriteString("|")
	}

	combined := query + "||" + strings.Join(names, "|") + "||" + priorMessages.String()
	hash := sha256.Sum256([]byte(combined))
	return cache.CacheKey("resolver", "choice", hex.EncodeToString(hash[:16]))
}

// get returns a live cached choice, or nil on miss/expiry/corruption.
func (c *choiceCache) get(ctx context.Context, key string) *cachedChoice {
	if c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, key)
	if err != nil {
		return nil
	}

	var choice cachedChoice
	if err := json.Unmarshal(data, &choice); err != nil {
		return nil
	}
	return &choice
}

// put stores a choice. Cache failures are deliberately swallowed: the
// cache only saves model calls, it never gates correctness.
func (c *choiceCache) put(ctx context.Context, key string, choice cachedChoice) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(choice)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, data, c.ttl)
}
