// Package validate provides pure predicate checks for applicant field values.
package validate

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nameRe  = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	phoneRe = regexp.MustCompile(`^\d{10,}$`)
)

// dateOfBirthLayouts are the accepted literal formats. Slash and dash dates
// are day-first (DD/MM/YYYY, DD-MM-YYYY); month-first input is not attempted.
var dateOfBirthLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// Email reports whether s has a local@domain.tld shape. It does not check
// deliverability.
func Email(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// Name reports whether s is a plausible human name: letters, spaces, hyphens
// and apostrophes only, at least two characters after trimming.
func Name(s string) bool {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 2 {
		return false
	}
	return nameRe.MatchString(trimmed)
}

// PhoneNumber reports whether s contains at least ten digits once spaces,
// hyphens, plus signs and parentheses are stripped.
func PhoneNumber(s string) bool {
	stripped := strings.NewReplacer(" ", "", "-", "", "+", "", "(", "", ")", "").Replace(strings.TrimSpace(s))
	return phoneRe.MatchString(stripped)
}

// DateOfBirth reports whether s parses as an accepted date format, lies
// strictly in the past, and corresponds to an age of at least 18 years.
func DateOfBirth(s string) bool {
	return dateOfBirthAt(s, time.Now())
}

func dateOfBirthAt(s string, now time.Time) bool {
	trimmed := strings.TrimSpace(s)
	var dob time.Time
	parsed := false
	for _, layout := range dateOfBirthLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			dob = t
			parsed = true
			break
		}
	}
	if !parsed {
		return false
	}
	if !dob.Before(now) {
		return false
	}
	// Adult check: birth date must be on or before exactly 18 years ago.
	cutoff := now.AddDate(-18, 0, 0)
	return !dob.After(cutoff)
}
