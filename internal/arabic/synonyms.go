package arabic

// Synonym dictionary for query expansion. Terms are grouped; every member
// of a group expands to all the others, so the table is bidirectional by
// construction. All entries are stored in normalized form.
//
// Groups cover the vocabulary customers actually use: brand names with
// their transliteration and Latin variants, colors with and without the
// definite article, generic footwear category terms, and gender
// qualifiers.
var synonymGroups = [][]string{
	// Brands.
	{"نايك", "نايكي", "nike"},
	{"اديداس", "adidas"},
	{"بوما", "puma"},
	{"ريبوك", "reebok"},
	{"سكيتشرز", "skechers"},
	{"سوان", "swan"},

	// Colors, with and without the definite article.
	{"ابيض", "الابيض", "بيضاء", "white"},
	{"اسود", "الاسود", "سوداء", "black"},
	{"احمر", "الاحمر", "حمراء", "red"},
	{"ازرق", "الازرق", "زرقاء", "blue"},
	{"اخضر", "الاخضر", "خضراء", "green"},
	{"اصفر", "الاصفر", "صفراء", "yellow"},
	{"بني", "البني", "بنيه", "brown"},
	{"بيج", "البيج", "beige"},
	{"رمادي", "الرمادي", "gray", "grey"},

	// Footwear category terms.
	{"كوتشي", "كوتشيات", "كوتش", "حذاء", "احذيه", "جزمه", "جزم", "shoes", "shoe", "sneaker", "sneakers"},
	{"صندل", "صنادل", "sandal", "sandals"},
	{"شبشب", "شباشب", "slipper", "slippers"},

	// Gender qualifiers.
	{"حريمي", "نسائي", "ستاتي", "women", "womens"},
	{"رجالي", "للرجال", "men", "mens"},
	{"اطفال", "للاطفال", "kids", "children"},
}

// synonyms maps a normalized term to its expansion variants.
var synonyms = buildSynonymTable()

func buildSynonymTable() map[string][]string {
	table := make(map[string][]string)
	for _, group := range synonymGroups {
		for _, term := range group {
			key := Normalize(term)
			for _, other := range group {
				variant := Normalize(other)
				if variant == key {
					continue
				}
				table[key] = append(table[key], variant)
			}
		}
	}
	return table
}

// ExpandTerms appends known synonym variants to the given term list.
// Expansion is additive only: original terms are never removed or altered,
// and the result is de-duplicated.
func ExpandTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	expanded := make([]string, 0, len(terms))

	add := func(term string) {
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		expanded = append(expanded, term)
	}

	for _, term := range terms {
		add(term)
	}
	for _, term := range terms {
		for _, variant := range synonyms[Normalize(term)] {
			add(variant)
		}
	}

	return expanded
}

// highValueTerms are core category and brand words that earn a flat scoring
// bonus: a query containing one of these almost always names what the
// customer wants.
var highValueTerms = map[string]bool{
	"كوتشي":  true,
	"حذاء":   true,
	"صندل":   true,
	"شبشب":   true,
	"جزمه":   true,
	"نايك":   true,
	"اديداس": true,
	"بوما":   true,
	"سوان":   true,
}

// IsHighValueTerm reports whether the normalized term is a core
// category/brand word.
func IsHighValueTerm(term string) bool {
	return highValueTerms[Normalize(term)]
}
