package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Name normalization for international city names. The normalization here is
// deliberately narrow: canonical decomposition plus stripping of the Latin
// combining diacritical marks block (U+0300..U+036F). Non-Latin scripts are
// not folded, and the edge-stripping step only treats ASCII word characters
// as word characters, so a pure Cyrillic or CJK name may normalize to "".
// That is accepted behavior; such names are validated against their own
// script ranges by IsValidCityName instead.

// MaxCityNameLength is the upper bound on a city name accepted as valid.
const MaxCityNameLength = 100

var (
	// whitespaceRun collapses internal whitespace runs to a single space.
	whitespaceRun = regexp.MustCompile(`\s+`)

	// nonWordEdge strips leading/trailing non-word characters. \w is the
	// ASCII word class, so non-Latin runes count as non-word here.
	nonWordEdge = regexp.MustCompile(`^\W+|\W+$`)

	// keyDisallowed removes everything but lowercase alphanumerics, spaces,
	// and hyphens when building cache keys.
	keyDisallowed = regexp.MustCompile(`[^a-z0-9 -]`)

	// hyphenRun collapses repeated hyphens in cache keys.
	hyphenRun = regexp.MustCompile(`-{2,}`)

	// cityLetter matches one letter from the supported script families:
	// basic Latin, Latin extended, Cyrillic (plus supplement), CJK ideographs,
	// kana, hangul, Hebrew, and Arabic (plus supplement).
	cityLetter = regexp.MustCompile(`[a-zA-Z` +
		`\x{00C0}-\x{024F}\x{1E00}-\x{1EFF}` +
		`\x{0400}-\x{04FF}\x{0500}-\x{052F}` +
		`\x{4E00}-\x{9FFF}\x{3040}-\x{30FF}\x{AC00}-\x{D7AF}` +
		`\x{0590}-\x{05FF}` +
		`\x{0600}-\x{06FF}\x{0750}-\x{077F}]`)

	// Suspicious punctuation sequences rejected by IsValidCityName.
	tripleDots      = regexp.MustCompile(`\.{3,}`)
	repeatedPunct   = regexp.MustCompile(`[,;]{2,}`)
	tripleSpaces    = regexp.MustCompile(`\s{3,}`)
	badLeadingEdge  = regexp.MustCompile(`^[^\p{L}\p{N}(]`)
	badTrailingEdge = regexp.MustCompile(`[^\p{L}\p{N})]$`)

	// parenthetical matches parenthesized segments for main-name extraction.
	parenthetical = regexp.MustCompile(`\([^)]*\)`)

	// nameSeparator matches the separators that split compound city names.
	nameSeparator = regexp.MustCompile(`[/\\\x{2013}\x{2014}-]`)

	// apiCharReplacer normalizes curly quotes and long dashes for API calls.
	apiCharReplacer = strings.NewReplacer(
		"‘", "'", "’", "'", "‚", "'", "′", "'",
		"“", `"`, "”", `"`, "„", `"`,
		"–", "-", "—", "-",
	)
)

// NormalizeName canonicalizes a city name for cache-key derivation and
// comparison: trim, Unicode NFD, strip Latin combining marks, lowercase,
// collapse whitespace, strip non-word edges. Empty input yields "".
func NormalizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}

	decomposed := norm.NFD.String(trimmed)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r >= 0x0300 && r <= 0x036F {
			continue
		}
		b.WriteRune(r)
	}

	lowered := strings.ToLower(b.String())
	collapsed := whitespaceRun.ReplaceAllString(lowered, " ")
	return nonWordEdge.ReplaceAllString(collapsed, "")
}

// CacheKey derives a stable cache key from a city name and optional country
// code. The output contains only lowercase alphanumerics and single hyphens,
// with no hyphen at either edge of a segment.
func CacheKey(city, country string) string {
	cityKey := keySegment(city)
	countryKey := keySegment(country)

	// A non-Latin name can normalize to an empty segment; joining it would
	// put a hyphen at the key's edge.
	switch {
	case cityKey == "":
		return countryKey
	case countryKey == "":
		return cityKey
	}
	return cityKey + "-" + countryKey
}

// keySegment normalizes one cache-key component.
func keySegment(s string) string {
	normalized := NormalizeName(s)
	cleaned := keyDisallowed.ReplaceAllString(normalized, "")
	hyphenated := strings.ReplaceAll(cleaned, " ", "-")
	collapsed := hyphenRun.ReplaceAllString(hyphenated, "-")
	return strings.Trim(collapsed, "-")
}

// IsValidCityName reports whether a raw city name is plausible input for
// resolution. It checks length bounds, requires at least one letter from the
// supported script families, and rejects suspicious punctuation runs and
// non-letter/non-digit edges (parentheses excepted).
func IsValidCityName(name string) bool {
	if name == "" {
		return false
	}
	if utf8.RuneCountInString(name) > MaxCityNameLength {
		return false
	}
	if !cityLetter.MatchString(name) {
		return false
	}
	if tripleDots.MatchString(name) || repeatedPunct.MatchString(name) || tripleSpaces.MatchString(name) {
		return false
	}
	if badLeadingEdge.MatchString(name) || badTrailingEdge.MatchString(name) {
		return false
	}
	return true
}

// CleanForAPI prepares a name for an upstream API call: trims, collapses
// whitespace, and normalizes curly quotes and en/em dashes to their ASCII
// equivalents. Case and structure are preserved.
func CleanForAPI(name string) string {
	cleaned := apiCharReplacer.Replace(strings.TrimSpace(name))
	return whitespaceRun.ReplaceAllString(cleaned, " ")
}

// ExtractMainName strips parenthetical segments and, when the remainder is a
// compound name ("Zürich / Oerlikon"), keeps the first segment if it is long
// enough to be a name on its own (more than 2 characters).
func ExtractMainName(name string) string {
	stripped := strings.TrimSpace(whitespaceRun.ReplaceAllString(parenthetical.ReplaceAllString(name, " "), " "))
	if stripped == "" {
		stripped = strings.TrimSpace(name)
	}

	loc := nameSeparator.FindStringIndex(stripped)
	if loc == nil {
		return stripped
	}

	first := strings.TrimSpace(stripped[:loc[0]])
	if utf8.RuneCountInString(first) > 2 {
		return first
	}
	return stripped
}

// FallbackNames builds the ordered retry sequence of name variations to try
// against the provider: the original first, then the API-cleaned form, then
// the extracted main name, then the fully normalized form. Duplicates are
// dropped while preserving order. Invalid or empty input yields nil.
func FallbackNames(name string) []string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || !IsValidCityName(trimmed) {
		return nil
	}

	variations := make([]string, 0, 4)
	seen := make(map[string]bool, 4)

	add := func(v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		variations = append(variations, v)
	}

	add(trimmed)
	add(CleanForAPI(trimmed))
	add(ExtractMainName(CleanForAPI(trimmed)))

	if normalized := NormalizeName(trimmed); normalized != strings.ToLower(trimmed) {
		add(normalized)
	}

	return variations
}
