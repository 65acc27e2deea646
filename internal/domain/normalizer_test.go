package domain

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain ascii is lowercased",
			input: "London",
			want:  "london",
		},
		{
			name:  "latin diacritics are stripped",
			input: "Zürich",
			want:  "zurich",
		},
		{
			name:  "multiple diacritics",
			input: "São Paulo",
			want:  "sao paulo",
		},
		{
			name:  "internal whitespace runs collapse",
			input: "New    York   City",
			want:  "new york city",
		},
		{
			name:  "surrounding whitespace is trimmed",
			input: "  Paris  ",
			want:  "paris",
		},
		{
			name:  "leading and trailing non-word characters are stripped",
			input: "- London -",
			want:  "london",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  "",
		},
		{
			// Diacritic stripping only targets the Latin combining block;
			// the ASCII word-edge strip then removes pure Cyrillic entirely.
			// This narrow behavior is intentional.
			name:  "pure cyrillic normalizes to empty",
			input: "Москва",
			want:  "",
		},
		{
			name:  "mixed script keeps ascii core",
			input: "Köln",
			want:  "koln",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.input))
		})
	}
}

func TestCacheKey(t *testing.T) {
	tests := []struct {
		name    string
		city    string
		country string
		want    string
	}{
		{
			name:    "city only",
			city:    "London",
			country: "",
			want:    "london",
		},
		{
			name:    "city and country",
			city:    "London",
			country: "GB",
			want:    "london-gb",
		},
		{
			name:    "spaces become hyphens",
			city:    "São Paulo",
			country: "BR",
			want:    "sao-paulo-br",
		},
		{
			name:    "punctuation is dropped and hyphens collapse",
			city:    "Zürich (Kreis 11) / Oerlikon",
			country: "CH",
			want:    "zurich-kreis-11-oerlikon-ch",
		},
		{
			name:    "existing hyphens survive",
			city:    "Baden-Baden",
			country: "DE",
			want:    "baden-baden-de",
		},
		{
			name:    "non-latin city degrades to the country segment",
			city:    "Москва",
			country: "RU",
			want:    "ru",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CacheKey(tt.city, tt.country))
		})
	}
}

// TestCacheKeyShape verifies the structural invariant of cache keys: only
// lowercase alphanumerics and single hyphens, never at the edges.
func TestCacheKeyShape(t *testing.T) {
	keyShape := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

	inputs := []struct {
		city    string
		country string
	}{
		{"London", "GB"},
		{"São Paulo", "BR"},
		{"Zürich (Kreis 11) / Oerlikon", "CH"},
		{"  New   York  ", "US"},
		{"Saint-Étienne", "FR"},
		{"'s-Hertogenbosch", "NL"},
		{"Москва", "RU"},
		{"東京", "JP"},
	}

	for _, in := range inputs {
		key := CacheKey(in.city, in.country)
		assert.Regexp(t, keyShape, key, "city=%q country=%q", in.city, in.country)
		assert.False(t, strings.Contains(key, "--"), "key %q has repeated hyphens", key)
	}
}

func TestIsValidCityName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"simple latin", "London", true},
		{"latin extended", "Zürich", true},
		{"cyrillic", "Москва", true},
		{"cjk", "東京", true},
		{"hebrew", "ירושלים", true},
		{"arabic", "القاهرة", true},
		{"with space and hyphen", "New York-East", true},
		{"parenthesized prefix", "(London)", true},
		{"empty", "", false},
		{"digits only", "12345", false},
		{"exactly 100 characters", strings.Repeat("a", 100), true},
		{"101 characters", strings.Repeat("a", 101), false},
		{"three consecutive dots", "bad... name", false},
		{"two consecutive dots pass", "a.. b", true},
		{"double comma", "bad,, name", false},
		{"double semicolon", "bad;; name", false},
		{"three consecutive spaces", "bad   name", false},
		{"two consecutive spaces pass", "ok  name", true},
		{"leading hyphen", "-London", false},
		{"trailing hyphen", "London-", false},
		{"leading comma", ",London", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidCityName(tt.input))
		})
	}
}

func TestCleanForAPI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trims and collapses whitespace",
			input: "  New   York  ",
			want:  "New York",
		},
		{
			name:  "curly single quotes become straight",
			input: "L’Aquila",
			want:  "L'Aquila",
		},
		{
			name:  "curly double quotes become straight",
			input: "“Quoted” Town",
			want:  `"Quoted" Town`,
		},
		{
			name:  "en and em dashes become hyphens",
			input: "Foo–Bar—Baz",
			want:  "Foo-Bar-Baz",
		},
		{
			name:  "case is preserved",
			input: "ZÜRICH",
			want:  "ZÜRICH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanForAPI(tt.input))
		})
	}
}

func TestExtractMainName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "parenthetical and slash segment",
			input: "Zürich (Kreis 11) / Oerlikon",
			want:  "Zürich",
		},
		{
			name:  "hyphenated compound keeps long first segment",
			input: "Baden-Baden",
			want:  "Baden",
		},
		{
			name:  "short first segment keeps whole name",
			input: "A-Town",
			want:  "A-Town",
		},
		{
			name:  "no separators",
			input: "London",
			want:  "London",
		},
		{
			name:  "parenthetical only",
			input: "Oslo (Sentrum)",
			want:  "Oslo",
		},
		{
			name:  "backslash separator",
			input: "North\\South City",
			want:  "North",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMainName(tt.input))
		})
	}
}

func TestFallbackNames(t *testing.T) {
	t.Run("original always comes first", func(t *testing.T) {
		got := FallbackNames("Zürich (Kreis 11) / Oerlikon")
		assert.NotEmpty(t, got)
		assert.Equal(t, "Zürich (Kreis 11) / Oerlikon", got[0])
	})

	t.Run("compound name yields main-name variation", func(t *testing.T) {
		got := FallbackNames("Zürich (Kreis 11) / Oerlikon")
		assert.Contains(t, got, "Zürich")
	})

	t.Run("normalized form appended when different", func(t *testing.T) {
		got := FallbackNames("Zürich (Kreis 11) / Oerlikon")
		assert.Contains(t, got, "zurich (kreis 11) / oerlikon")
	})

	t.Run("simple ascii name yields single variation", func(t *testing.T) {
		got := FallbackNames("London")
		assert.Equal(t, []string{"London"}, got)
	})

	t.Run("no duplicates", func(t *testing.T) {
		got := FallbackNames("Zürich (Kreis 11) / Oerlikon")
		seen := make(map[string]bool)
		for _, v := range got {
			assert.False(t, seen[v], "duplicate variation %q", v)
			seen[v] = true
		}
	})

	t.Run("empty input yields nothing", func(t *testing.T) {
		assert.Empty(t, FallbackNames(""))
	})

	t.Run("invalid input yields nothing", func(t *testing.T) {
		assert.Empty(t, FallbackNames("bad... name"))
	})
}
