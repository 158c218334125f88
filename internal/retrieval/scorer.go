package retrieval

import (
	"strings"
	"unicode/utf8"

	"github.com/rudud-ai/knowledge-engine/internal/arabic"
	"github.com/rudud-ai/knowledge-engine/internal/knowledge"
	"github.com/rudud-ai/knowledge-engine/internal/storage"
)

// Scoring weights. Exact word-boundary matches dominate; substring hits and
// the high-value category/brand bonus refine the ranking.
const (
	exactWordPoints = 5.0
	substringPoints = 2.0
	highValueBonus  = 3.0
	colorCueBonus   = 5.0
	sizeCueBonus    = 5.0
	priceCueBonus   = 3.0
	imageCueBonus   = 5.0
	inStockBonus    = 2.0
)

// Score computes the lexical match score between a text blob and a set of
// search terms. The text is normalized and the terms are expanded through
// the synonym table before matching. Always >= 0 and deterministic for
// identical input.
func Score(text string, terms []string) float64 {
	normalized := arabic.Normalize(text)
	if normalized == "" || len(terms) == 0 {
		return 0
	}
	words := strings.Fields(normalized)

	var score float64
	for _, term := range arabic.ExpandTerms(terms) {
		t := arabic.Normalize(term)
		if utf8.RuneCountInString(t) <= 1 {
			continue
		}

		exact := 0
		for _, w := range words {
			if w == t {
				exact++
			}
		}
		total := strings.Count(normalized, t)

		score += float64(exact) * exactWordPoints
		if extra := total - exact; extra > 0 {
			score += float64(extra) * substringPoints
		}
		if total > 0 && arabic.IsHighValueTerm(t) {
			score += highValueBonus
		}
	}

	return score
}

// SemanticBonus inspects the original, unexpanded query for intent cues
// (color, size, price, image requests) and awards a fixed bonus when the
// entry's structured attributes carry the corresponding feature. A small
// bonus is added for positive stock regardless of cues.
func SemanticBonus(query string, e knowledge.Entry) float64 {
	if e.Kind != knowledge.KindProduct || e.Product == nil {
		return 0
	}
	p := e.Product

	var bonus float64
	if arabic.HasColorCue(query) && p.HasVariantOfType(storage.VariantTypeColor) {
		bonus += colorCueBonus
	}
	if arabic.HasSizeCue(query) && p.HasVariantOfType(storage.VariantTypeSize) {
		bonus += sizeCueBonus
	}
	if arabic.HasPriceCue(query) && p.Price > 0 {
		bonus += priceCueBonus
	}
	if arabic.HasImageCue(query) && p.ImageStatus == knowledge.ImagesAvailable {
		bonus += imageCueBonus
	}
	if p.InStock() {
		bonus += inStockBonus
	}
	return bonus
}

// ScoreEntry combines the lexical score over the entry text with the
// semantic bonus for the raw query. Zero signals no evidence of relevance.
func ScoreEntry(e knowledge.Entry, query string, terms []string) float64 {
	return Score(e.Text, terms) + SemanticBonus(query, e)
}
