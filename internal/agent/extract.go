package agent

import (
	"regexp"
	"strings"

	"github.com/clearpath/intake/internal/domain"
)

// Pattern extraction: deterministic regex scanning of the raw message for
// personal-section fields. Every candidate passes its validator before being
// stored, and set fields are never overwritten.

var (
	emailPattern = regexp.MustCompile(`[^\s@,]+@[^\s@,]+\.[^\s@,]+`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s()\-]{8,}\d`)
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`),
		regexp.MustCompile(`\b\d{2}-\d{2}-\d{4}\b`),
	}
	namePattern = regexp.MustCompile(`(?i)(?:my name is|name is|i'm called|call me)\s+([a-zA-Z' -]+)`)
)

// nationalityKeywords is the fixed vocabulary scanned for a stated
// nationality. Matching is case-insensitive on word boundaries.
var nationalityKeywords = []string{
	"American", "British", "Canadian", "Australian", "Indian", "Chinese",
	"Japanese", "German", "French", "Spanish", "Italian", "Dutch",
	"Brazilian", "Mexican", "Nigerian", "Kenyan", "Egyptian",
	"South African", "Pakistani", "Bangladeshi", "Filipino", "Vietnamese",
	"Korean", "Russian", "Polish", "Swedish", "Norwegian", "Irish",
	"Scottish", "Turkish", "Greek", "Portuguese", "Argentinian",
}

// ApplyPatterns mines the message for personal-section values and merges any
// that validate. It reports whether anything was stored.
func ApplyPatterns(a *Agent, message string) bool {
	applied := false
	set := func(field, value string, validator func(string) bool) {
		if validator != nil && !validator(value) {
			return
		}
		if a.Data.Set(domain.SectionPersonal, field, value) {
			applied = true
		}
	}

	personal, _ := domain.SchemaFor(domain.SectionPersonal)
	validators := make(map[string]func(string) bool, len(personal.Fields))
	for _, f := range personal.Fields {
		validators[f.Name] = f.Validate
	}

	if m := emailPattern.FindString(message); m != "" {
		set("email", m, validators["email"])
	}

	for _, re := range datePatterns {
		if m := re.FindString(message); m != "" && validators["dateOfBirth"](m) {
			set("dateOfBirth", m, nil)
			break
		}
	}

	// A date-like substring also matches the phone pattern, so take the
	// first candidate that survives the phone validator.
	for _, m := range phonePattern.FindAllString(message, -1) {
		if validators["phoneNumber"](m) {
			set("phoneNumber", strings.TrimSpace(m), nil)
			break
		}
	}

	if m := namePattern.FindStringSubmatch(message); m != nil {
		first, middle, last := splitName(m[1])
		if first != "" {
			set("firstName", first, validators["firstName"])
		}
		if middle != "" {
			set("middleName", middle, validators["middleName"])
		}
		if last != "" {
			set("lastName", last, validators["lastName"])
		}
	}

	lower := strings.ToLower(message)
	for _, keyword := range nationalityKeywords {
		if containsWord(lower, strings.ToLower(keyword)) {
			set("nationality", keyword, nil)
			break
		}
	}

	return applied
}

// splitName guesses first/middle/last from a captured name phrase.
func splitName(phrase string) (first, middle, last string) {
	tokens := strings.Fields(strings.TrimSpace(phrase))
	switch len(tokens) {
	case 0:
		return "", "", ""
	case 1:
		return tokens[0], "", ""
	case 2:
		return tokens[0], "", tokens[1]
	default:
		return tokens[0], tokens[1], strings.Join(tokens[2:], " ")
	}
}

func containsWord(haystack, word string) bool {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(haystack[start-1])
		afterOK := end == len(haystack) || !isWordChar(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
