package arabic

import "strings"

// Intent cue lists inspected on the raw customer message. These drive the
// semantic-bonus pass of the scorer and the pivot detection of the
// specific-product resolver. All entries are normalized.

var colorCues = []string{
	"لون", "الوان", "ابيض", "اسود", "احمر", "ازرق", "اخضر", "اصفر",
	"بني", "بيج", "رمادي", "color", "colour",
	"white", "black", "red", "blue", "green", "yellow", "brown", "beige",
	"gray", "grey",
}

var sizeCues = []string{
	"مقاس", "مقاسات", "قياس", "size", "sizes",
}

var priceCues = []string{
	"سعر", "اسعار", "بكام", "بكم", "كام", "ثمن", "فلوس", "price",
}

var imageCues = []string{
	"صوره", "صور", "شكل", "اشوف", "ابعت", "وريني", "photo", "image", "pic",
}

// differentProductCues signal that the customer is pivoting away from the
// product most recently under discussion ("the other one").
var differentProductCues = []string{
	"التاني", "الثاني", "تاني", "غيره", "غير ده", "مختلف", "الاخر", "بدله",
	"other", "another", "different",
}

func containsAnyCue(query string, cues []string) bool {
	normalized := " " + Normalize(query) + " "
	for _, cue := range cues {
		if strings.Contains(normalized, cue) {
			return true
		}
	}
	return false
}

// HasColorCue reports whether the query asks about colors.
func HasColorCue(query string) bool { return containsAnyCue(query, colorCues) }

// HasSizeCue reports whether the query asks about sizes.
func HasSizeCue(query string) bool { return containsAnyCue(query, sizeCues) }

// HasPriceCue reports whether the query asks about price.
func HasPriceCue(query string) bool { return containsAnyCue(query, priceCues) }

// HasImageCue reports whether the query asks for pictures.
func HasImageCue(query string) bool { return containsAnyCue(query, imageCues) }

// SignalsDifferentProduct reports whether the query explicitly pivots to a
// product other than the one most recently discussed.
func SignalsDifferentProduct(query string) bool {
	return containsAnyCue(query, differentProductCues)
}
