// ABOUTME: Language and voice auto-detection for a freshly segmented document
// ABOUTME: lang attribute, then Unicode block density, then stopword scoring

package narration

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"reader-app-core/core/dom"
	"reader-app-core/core/domain"
)

// defaultLanguage is the baseline when no signal wins.
const defaultLanguage = "en"

// detectionSampleRunes bounds how much text the classifier reads.
const detectionSampleRunes = 4000

// nonLatinThreshold is the share of letters a script must reach to classify
// the document.
const nonLatinThreshold = 0.15

// stopwords are the fixed per-language lists for Latin-script scoring.
var stopwords = map[string][]string{
	"en": {"the", "and", "is", "of", "to", "in", "that", "it", "was", "for", "with", "his", "her", "this", "have"},
	"es": {"el", "la", "los", "las", "de", "que", "y", "en", "un", "una", "por", "con", "para", "es", "su"},
	"fr": {"le", "la", "les", "de", "des", "et", "est", "en", "un", "une", "que", "qui", "dans", "pour", "pas"},
	"de": {"der", "die", "das", "und", "ist", "von", "mit", "den", "nicht", "ein", "eine", "auf", "sich", "auch", "als"},
	"it": {"il", "la", "di", "che", "e", "un", "una", "per", "con", "non", "sono", "del", "della", "si", "come"},
	"pt": {"o", "a", "os", "as", "de", "que", "e", "um", "uma", "para", "com", "por", "é", "não", "se"},
}

// DetectLanguage classifies the document's language. Preference order: an
// explicit lang attribute on the content root or its descendants (never
// ancestors, which would pick up the app shell's language), then Unicode
// block density for non-Latin scripts, then stopword scoring for Latin
// candidates. Runs once per freshly segmented document.
func DetectLanguage(root *html.Node) string {
	if lang := findLangAttr(root); lang != "" {
		return lang
	}

	sample := sampleText(root)
	if lang := classifyByScript(sample); lang != "" {
		return lang
	}
	return scoreStopwords(sample)
}

// findLangAttr searches root and its descendants for a lang attribute.
func findLangAttr(root *html.Node) string {
	var found string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := dom.Attr(n, "lang"); ok && strings.TrimSpace(v) != "" {
				found = strings.TrimSpace(v)
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return found
}

func sampleText(root *html.Node) string {
	text := normalizeWhitespace(readableText(root))
	runes := []rune(text)
	if len(runes) > detectionSampleRunes {
		runes = runes[:detectionSampleRunes]
	}
	return string(runes)
}

// classifyByScript counts letters per Unicode block and returns a language
// when a non-Latin script dominates. Kana distinguishes Japanese from
// Chinese; Hangul marks Korean.
func classifyByScript(sample string) string {
	var letters, han, kana, hangul, cyrillic, arabic, hebrew, thai, devanagari, greek int
	for _, r := range sample {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		switch {
		case unicode.Is(unicode.Han, r):
			han++
		case unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			kana++
		case unicode.Is(unicode.Hangul, r):
			hangul++
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case unicode.Is(unicode.Hebrew, r):
			hebrew++
		case unicode.Is(unicode.Thai, r):
			thai++
		case unicode.Is(unicode.Devanagari, r):
			devanagari++
		case unicode.Is(unicode.Greek, r):
			greek++
		}
	}
	if letters == 0 {
		return ""
	}
	ratio := func(n int) bool { return float64(n)/float64(letters) >= nonLatinThreshold }
	switch {
	case ratio(kana):
		return "ja"
	case ratio(hangul):
		return "ko"
	case ratio(han):
		return "zh"
	case ratio(cyrillic):
		return "ru"
	case ratio(arabic):
		return "ar"
	case ratio(hebrew):
		return "he"
	case ratio(thai):
		return "th"
	case ratio(devanagari):
		return "hi"
	case ratio(greek):
		return "el"
	}
	return ""
}

// scoreStopwords counts exact word matches against each language's list and
// picks the highest score, defaulting on a total tie or no signal.
func scoreStopwords(sample string) string {
	words := strings.Fields(strings.ToLower(sample))
	present := make(map[string]int, len(words))
	for _, w := range words {
		present[strings.Trim(w, ".,;:!?\"'()[]")]++
	}

	best, bestScore := defaultLanguage, 0
	for _, lang := range []string{"en", "es", "fr", "de", "it", "pt"} {
		score := 0
		for _, sw := range stopwords[lang] {
			score += present[sw]
		}
		if score > bestScore {
			best, bestScore = lang, score
		}
	}
	return best
}

// PickVoice chooses a synthesis voice for a language: exact tag match first,
// then prefix match either way. Returns ok=false when nothing matches;
// auto-detection never forces a voice in that case.
func PickVoice(voices []domain.Voice, lang string) (domain.Voice, bool) {
	lang = strings.ToLower(lang)
	for _, v := range voices {
		if strings.ToLower(v.Language) == lang {
			return v, true
		}
	}
	for _, v := range voices {
		vl := strings.ToLower(v.Language)
		if strings.HasPrefix(vl, lang+"-") || strings.HasPrefix(lang, vl+"-") {
			return v, true
		}
	}
	return domain.Voice{}, false
}
