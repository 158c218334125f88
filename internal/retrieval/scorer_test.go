package retrieval

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rudud-ai/knowledge-engine/internal/knowledge"
	"github.com/rudud-ai/knowledge-engine/internal/storage"
)

func TestScore_ExactWordMatch(t *testing.T) {
	// One exact word (5), the high-value category bonus (3), and a substring
	// hit (2) from the expanded variant "كوتش" inside "كوتشي".
	score := Score("كوتشي رياضي خفيف", []string{"كوتشي"})
	assert.Equal(t, 10.0, score)
}

func TestScore_SubstringMatch(t *testing.T) {
	// "لمسه" appears inside "بلمسه" but never as its own word.
	score := Score("حذاء بلمسه عصريه", []string{"لمسه"})
	assert.Equal(t, 2.0, score)
}

func TestScore_SynonymExpansion(t *testing.T) {
	// The Arabic query matches the Latin brand through the synonym table.
	score := Score("nike air max", []string{"نايك"})
	assert.Greater(t, score, 0.0)
}

func TestScore_ScriptVariantsFold(t *testing.T) {
	// Taa marbuta in the query folds to match haa in the text.
	score := Score("كوتشي لمسه من سوان", []string{"لمسة"})
	assert.GreaterOrEqual(t, score, 5.0)
}

func TestScore_SkipsSingleRuneTerms(t *testing.T) {
	assert.Equal(t, 0.0, Score("و في كمان", []string{"و"}))
}

func TestScore_NoMatch(t *testing.T) {
	assert.Equal(t, 0.0, Score("صندل جلد طبيعي", []string{"تليفون"}))
}

func TestScore_EmptyInputs(t *testing.T) {
	assert.Equal(t, 0.0, Score("", []string{"كوتشي"}))
	assert.Equal(t, 0.0, Score("كوتشي", nil))
}

func TestScore_Deterministic(t *testing.T) {
	text := "كوتشي نايك اير ماكس رياضي متوفر"
	terms := []string{"كوتشي", "نايك", "رياضي"}

	first := Score(text, terms)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(text, terms))
	}
	assert.GreaterOrEqual(t, first, 0.0)
}

func productEntry(t *testing.T, variants []storage.ProductVariant, stock int, imagesRaw string) knowledge.Entry {
	t.Helper()
	return knowledge.NewProductEntry(storage.Product{
		ID:        uuid.New(),
		TenantID:  uuid.New(),
		Name:      "كوتشي نايك",
		Price:     1200,
		Stock:     stock,
		ImagesRaw: imagesRaw,
		Variants:  variants,
	})
}

func TestSemanticBonus_ColorCue(t *testing.T) {
	withColors := productEntry(t, []storage.ProductVariant{
		{ID: uuid.New(), Name: "احمر", Type: storage.VariantTypeColor},
	}, 0, "")
	noVariants := productEntry(t, nil, 0, "")

	query := "عندكم الوان ايه"
	assert.Equal(t, 5.0, SemanticBonus(query, withColors))
	assert.Equal(t, 0.0, SemanticBonus(query, noVariants))
}

func TestSemanticBonus_SizeCue(t *testing.T) {
	withSizes := productEntry(t, []storage.ProductVariant{
		{ID: uuid.New(), Name: "42", Type: storage.VariantTypeSize},
	}, 0, "")

	assert.Equal(t, 5.0, SemanticBonus("المقاسات المتاحه ايه", withSizes))
}

func TestSemanticBonus_PriceCue(t *testing.T) {
	e := productEntry(t, nil, 0, "")
	assert.Equal(t, 3.0, SemanticBonus("الكوتشي ده بكام", e))
}

func TestSemanticBonus_ImageCue(t *testing.T) {
	withImages := productEntry(t, nil, 0, `["https://cdn.example.com/a.jpg"]`)
	withoutImages := productEntry(t, nil, 0, "broken {{")

	// "اشوف" is an image cue; only the entry with real images earns it.
	assert.Equal(t, 5.0, SemanticBonus("عايز اشوف المنتج", withImages))
	assert.Equal(t, 0.0, SemanticBonus("عايز اشوف المنتج", withoutImages))
}

func TestSemanticBonus_InStock(t *testing.T) {
	inStock := productEntry(t, nil, 4, "")
	assert.Equal(t, 2.0, SemanticBonus("اي حاجه", inStock))
}

func TestSemanticBonus_NonProductEntry(t *testing.T) {
	faq := knowledge.NewFAQEntry(storage.FAQ{ID: 1, Question: "س", Answer: "ج"})
	assert.Equal(t, 0.0, SemanticBonus("عندكم الوان ايه", faq))
}

func TestScoreEntry_CombinesLexicalAndSemantic(t *testing.T) {
	e := productEntry(t, nil, 3, "")

	lexical := Score(e.Text, []string{"كوتشي"})
	combined := ScoreEntry(e, "عايز كوتشي", []string{"كوتشي"})
	assert.Equal(t, lexical+2.0, combined) // in-stock bonus on top
}
