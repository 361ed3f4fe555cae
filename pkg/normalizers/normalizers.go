// Package normalizers provides field normalization functions shared by
// aggregation and entity resolution. Every comparison runs over normalized
// values so the two subsystems agree on what "equal" means.
package normalizers

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	// Register built-in normalizers
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("nphone", NormalizePhone)
	Register("nemail", NormalizeEmail)
	Register("nwebsite", NormalizeWebsite)
	Register("nprovince", NormalizeProvince)
	Register("nname", NormalizeName)
	Register("slug", Slug)
	Register("strip_diacritics", StripDiacritics)
	Register("digits_only", DigitsOnly)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// Built-in normalizers

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes combining marks ("Málaga" -> "Malaga")
func StripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizePhone keeps digits and a leading plus sign
func NormalizePhone(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsDigit(r) || (r == '+' && i == 0) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// CanonicalPhone normalizes a phone number and prefixes the country calling
// code for bare national numbers, so the same line compares equal across
// sources that format it differently.
func CanonicalPhone(s, countryCode string) string {
	digits := NormalizePhone(s)
	if digits == "" || strings.HasPrefix(digits, "+") {
		return digits
	}
	if prefix, ok := countryCallingCodes[strings.ToUpper(strings.TrimSpace(countryCode))]; ok {
		// National numbers sometimes arrive already prefixed without the plus.
		if strings.HasPrefix(digits, prefix) && len(digits) > len(prefix)+6 {
			return "+" + digits
		}
		return "+" + prefix + digits
	}
	return digits
}

var countryCallingCodes = map[string]string{
	"ES": "34",
	"PT": "351",
	"FR": "33",
	"DE": "49",
	"IT": "39",
	"GB": "44",
	"US": "1",
}

// NormalizeEmail normalizes an email address (lowercase, trim)
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeWebsite reduces a URL to its canonical host+path form: lowercase,
// scheme and "www." stripped, no trailing slash.
func NormalizeWebsite(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimSuffix(s, "/")
}

// NormalizeProvince folds case and diacritics for province comparison
func NormalizeProvince(s string) string {
	return StripDiacritics(strings.ToLower(strings.TrimSpace(s)))
}

// NormalizeName normalizes an organization name for matching:
// lowercase, diacritics stripped, punctuation removed, whitespace collapsed.
func NormalizeName(s string) string {
	s = StripDiacritics(strings.ToLower(s))

	var result strings.Builder
	prevSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
			prevSpace = false
		} else if unicode.IsSpace(r) || unicode.IsPunct(r) {
			if !prevSpace {
				result.WriteRune(' ')
				prevSpace = true
			}
		}
	}

	return strings.TrimSpace(result.String())
}

// Slug derives the canonical entity key from an organization name:
// normalized name with spaces replaced by hyphens ("Aero Club, S.L." ->
// "aero-club-s-l").
func Slug(s string) string {
	normalized := NormalizeName(s)
	if normalized == "" {
		return ""
	}
	return strings.ReplaceAll(normalized, " ", "-")
}

// DigitsOnly keeps only digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
