package arabic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandTerms_BrandVariants(t *testing.T) {
	expanded := ExpandTerms([]string{"نايك"})
	assert.Contains(t, expanded, "نايك")
	assert.Contains(t, expanded, "nike")
	assert.Contains(t, expanded, "نايكي")
}

func TestExpandTerms_Bidirectional(t *testing.T) {
	fromLatin := ExpandTerms([]string{"nike"})
	assert.Contains(t, fromLatin, "نايك")
}

func TestExpandTerms_PreservesOriginals(t *testing.T) {
	original := []string{"عايز", "كوتشي", "نايك"}
	expanded := ExpandTerms(original)

	for _, term := range original {
		assert.Contains(t, expanded, term)
	}
	assert.GreaterOrEqual(t, len(expanded), len(original))
}

func TestExpandTerms_Deduplicates(t *testing.T) {
	expanded := ExpandTerms([]string{"كوتشي", "حذاء"})

	seen := make(map[string]int)
	for _, term := range expanded {
		seen[term]++
	}
	for term, count := range seen {
		assert.Equal(t, 1, count, "term %q appears %d times", term, count)
	}
}

func TestExpandTerms_UnknownTermPassesThrough(t *testing.T) {
	expanded := ExpandTerms([]string{"مجهول"})
	assert.Equal(t, []string{"مجهول"}, expanded)
}

func TestIsHighValueTerm(t *testing.T) {
	assert.True(t, IsHighValueTerm("كوتشي"))
	assert.True(t, IsHighValueTerm("نايك"))
	assert.True(t, IsHighValueTerm("جزمة")) // taa marbuta folds before lookup
	assert.False(t, IsHighValueTerm("عايز"))
	assert.False(t, IsHighValueTerm("ابيض"))
}

func TestHasColorCue(t *testing.T) {
	assert.True(t, HasColorCue("عندكم ألوان إيه"))
	assert.True(t, HasColorCue("available in black?"))
	assert.True(t, HasColorCue("do you have it in white"))
	assert.False(t, HasColorCue("عايز اعرف السعر"))
}

func TestHasSizeCue(t *testing.T) {
	assert.True(t, HasSizeCue("المقاسات المتاحة ايه"))
	assert.False(t, HasSizeCue("عايز كوتشي"))
}

func TestHasPriceCue(t *testing.T) {
	assert.True(t, HasPriceCue("الكوتشي ده بكام"))
	assert.True(t, HasPriceCue("ما هو السعر"))
	assert.False(t, HasPriceCue("عايز اشوف الصور"))
}

func TestHasImageCue(t *testing.T) {
	assert.True(t, HasImageCue("ابعت صورة المنتج"))
	assert.True(t, HasImageCue("عايز اشوف شكله"))
	assert.False(t, HasImageCue("الشحن بياخد قد ايه"))
}

func TestSignalsDifferentProduct(t *testing.T) {
	assert.True(t, SignalsDifferentProduct("لا عايز الكوتشي التاني"))
	assert.True(t, SignalsDifferentProduct("في حاجة غيره؟"))
	assert.False(t, SignalsDifferentProduct("عايز الكوتشي ده"))
}
