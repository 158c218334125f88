package resolver

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/rudud-ai/knowledge-engine/internal/arabic"
)

// Fallback scoring constants. The conversation weights are heuristic,
// tuned by trial; keep them named and adjust here, not inline.
const (
	// flexibleTokenPoints is awarded per flexibly-matched query/name token pair.
	flexibleTokenPoints = 5.0
	// substringOverlapPoints is awarded when the whole candidate name and the
	// query overlap as substrings.
	substringOverlapPoints = 3.0
	// recentMentionBonus is awarded when the candidate name appears in the
	// most recent turn's response text.
	recentMentionBonus = 10.0
	// recencyDecay halves a turn's mention bonus per step into the past.
	recencyDecay = 0.5
	// pivotDamping sharply reduces (but does not zero) the just-discussed
	// product's score when the query explicitly asks for a different one.
	pivotDamping = 0.3
	// defaultFallbackThreshold is the minimum score accepted as a match.
	defaultFallbackThreshold = 5.0
	// fallbackMaxConfidence caps confidence reported by the fallback path.
	fallbackMaxConfidence = 0.8
)

// fallbackResolve deterministically picks the best candidate for the query,
// or reports no specific product when nothing scores past the threshold.
// Used whenever the model call fails, parses badly, or is unconfident.
func fallbackResolve(query string, history []ConversationTurn, candidates []candidate, threshold float64) Resolution {
	if threshold <= 0 {
		threshold = defaultFallbackThreshold
	}

	pivot := arabic.SignalsDifferentProduct(query)
	queryTokens := arabic.Tokenize(query)
	normalizedQuery := arabic.Normalize(query)

	best := -1
	bestScore := 0.0
	for i, c := range candidates {
		score := nameMatchScore(normalizedQuery, queryTokens, c.name)
		score += historyBonus(history, c.name)
		// An explicit "different product" request damps the total for the
		// product just discussed, so context biases but cannot override
		// the pivot.
		if pivot && mentionedInMostRecentTurn(history, c.name) {
			score *= pivotDamping
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}

	if best < 0 || bestScore < threshold {
		return Resolution{
			Confidence: 0,
			IsSpecific: false,
			Reasoning:  "no candidate scored past the deterministic threshold",
		}
	}

	entry := candidates[best].entry
	return Resolution{
		Product:    &entry,
		Confidence: fallbackConfidence(bestScore, threshold),
		IsSpecific: true,
		Reasoning:  "matched by deterministic scoring over name and conversation context",
	}
}

// nameMatchScore scores lexical overlap between the query and a product
// name: flexible token pairs plus a whole-name substring bonus.
func nameMatchScore(normalizedQuery string, queryTokens []string, name string) float64 {
	normalizedName := arabic.Normalize(name)
	nameTokens := strings.Fields(normalizedName)

	var score float64
	for _, qt := range queryTokens {
		for _, nt := range nameTokens {
			if flexibleTokenMatch(qt, nt) {
				score += flexibleTokenPoints
			}
		}
	}
	if strings.Contains(normalizedQuery, normalizedName) || strings.Contains(normalizedName, normalizedQuery) {
		score += substringOverlapPoints
	}
	return score
}

// historyBonus awards conversation-context points for a candidate whose
// name appears in prior responses. Older turns contribute less.
func historyBonus(history []ConversationTurn, name string) float64 {
	normalizedName := arabic.Normalize(name)

	var bonus float64
	weight := recentMentionBonus
	for _, turn := range history {
		if strings.Contains(arabic.Normalize(turn.Response), normalizedName) {
			bonus += weight
		}
		weight *= recencyDecay
	}
	return bonus
}

// mentionedInMostRecentTurn reports whether the candidate name appears in
// the latest turn's response text.
func mentionedInMostRecentTurn(history []ConversationTurn, name string) bool {
	if len(history) == 0 {
		return false
	}
	return strings.Contains(arabic.Normalize(history[0].Response), arabic.Normalize(name))
}

// flexibleTokenMatch reports whether two normalized tokens match exactly or
// by containment. Tokens of three runes or fewer must match exactly to
// avoid noise from particles.
func flexibleTokenMatch(a, b string) bool {
	if a == b {
		return true
	}
	if utf8.RuneCountInString(a) <= 3 || utf8.RuneCountInString(b) <= 3 {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// fallbackConfidence maps a fallback score to a reported confidence,
// starting at 0.3 on the threshold and capped below the model path.
func fallbackConfidence(score, threshold float64) float64 {
	conf := 0.3 + (score-threshold)*0.05
	return math.Min(fallbackMaxConfidence, conf)
}
