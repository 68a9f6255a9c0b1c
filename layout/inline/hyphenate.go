package inline

// vowelHyphenator is a minimal, dependency-free Hyphenator: it proposes a
// break after every vowel-to-consonant transition inside a word, skipping
// the first and last few characters so short words and word edges are
// never split. It exists as the engine's built-in fallback; a host that
// wants language-correct hyphenation (Liang's algorithm with per-language
// pattern dictionaries) supplies its own Hyphenator implementation.
type vowelHyphenator struct {
	minPrefix int
	minSuffix int
}

// NewVowelHyphenator returns a Hyphenator using a coarse vowel/consonant
// heuristic, keeping at least minPrefix and minSuffix characters unbroken
// at each edge of the word.
func NewVowelHyphenator(minPrefix, minSuffix int) Hyphenator {
	if minPrefix < 1 {
		minPrefix = 2
	}
	if minSuffix < 1 {
		minSuffix = 2
	}
	return &vowelHyphenator{minPrefix: minPrefix, minSuffix: minSuffix}
}

func (h *vowelHyphenator) Hyphenate(word string, lang Lang, region *Region) []int {
	runes := []rune(word)
	if len(runes) < h.minPrefix+h.minSuffix+1 {
		return nil
	}

	var cuts []int
	byteOffset := 0
	offsets := make([]int, len(runes)+1)
	for i, r := range runes {
		offsets[i] = byteOffset
		byteOffset += len(string(r))
	}
	offsets[len(runes)] = byteOffset

	for i := h.minPrefix; i < len(runes)-h.minSuffix; i++ {
		if isVowel(runes[i]) && !isVowel(runes[i+1]) {
			cuts = append(cuts, offsets[i+1])
		}
	}
	return cuts
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y', 'A', 'E', 'I', 'O', 'U', 'Y':
		return true
	default:
		return false
	}
}
