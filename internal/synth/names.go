package synth

import "github.com/nametrends/nametrends/internal/domain/model"

// Syllable pools for synthetic name construction. The pools are fixed so a
// given (index, sex) pair always maps to the same name.
var (
	onsets = []string{
		"Al", "Be", "Ca", "Da", "El", "Fi", "Ga", "Ha", "Is", "Jo",
		"Ka", "Li", "Ma", "No", "Ol", "Pe", "Qui", "Ro", "Sa", "Te",
	}
	mids = []string{"", "ri", "la", "vi", "do", "ne", "mi"}

	suffixesF = []string{"a", "na", "ra", "ia", "elle", "ette"}
	suffixesM = []string{"n", "den", "ton", "rick", "mas", "el"}
)

// syntheticName builds the i-th name for a sex. Distinct indexes produce
// distinct names for pool sizes up to len(onsets)*len(mids)*len(suffixes).
func syntheticName(i int, sex model.Sex) string {
	suffixes := suffixesF
	if sex == model.Male {
		suffixes = suffixesM
	}

	onset := onsets[i%len(onsets)]
	mid := mids[(i/len(onsets))%len(mids)]
	suffix := suffixes[(i/(len(onsets)*len(mids)))%len(suffixes)]
	return onset + mid + suffix
}

// maxNamesPerSex is the largest distinct pool syntheticName can produce.
func maxNamesPerSex() int {
	return len(onsets) * len(mids) * len(suffixesF)
}
