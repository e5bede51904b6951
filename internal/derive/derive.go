// Package derive computes fields that are functions of already-extracted
// values: candidate age, normalized fit scores, and canonical mobile numbers.
// Every parse failure is swallowed into a sentinel or fallback; nothing here
// returns an error.
package derive

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hirestack/resume-intake/constants"
)

const dobLayout = "2006-01-02"

// graduationOffset approximates the age at graduation when no date of birth
// is available.
const graduationOffset = 22

var reNonDigit = regexp.MustCompile(`\D`)

// Age derives a candidate age as of now. Date of birth (YYYY-MM-DD) wins;
// a present-but-unparseable date of birth yields the sentinel without
// consulting the graduation year, matching the source behavior.
func Age(now time.Time, dateOfBirth, graduationYear string) string {
	if present(dateOfBirth) {
		dob, err := time.Parse(dobLayout, strings.TrimSpace(dateOfBirth))
		if err != nil {
			return constants.NotAvailable
		}
		return strconv.Itoa(now.Year() - dob.Year())
	}
	if present(graduationYear) {
		year, err := strconv.Atoi(strings.TrimSpace(graduationYear))
		if err != nil {
			return constants.NotAvailable
		}
		return strconv.Itoa(now.Year() - year + graduationOffset)
	}
	return constants.NotAvailable
}

// NormalizeScore canonicalizes a fit score to the 0-10 scale with one
// decimal. A value above 10 is assumed to be a 0-100 reading and divided by
// ten. Non-numeric input returns ok=false; the caller picks its own fallback.
func NormalizeScore(raw string) (string, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", false
	}
	if f > 10 {
		f /= 10
	}
	return strconv.FormatFloat(f, 'f', 1, 64), true
}

// BatchScore is the batch-path score convention: any failure stores "0"
// rather than the missing-value sentinel.
func BatchScore(raw string) string {
	if s, ok := NormalizeScore(raw); ok {
		return s
	}
	return "0"
}

// CleanMobile canonicalizes a raw phone string to a bare 10-digit Indian
// mobile number: non-digits are stripped, a longer string keeps its last ten
// digits (dropping country code or prefixes), and anything that does not end
// up exactly ten digits long is not a mobile number.
func CleanMobile(raw string) string {
	if !present(raw) {
		return constants.NotAvailable
	}
	digits := reNonDigit.ReplaceAllString(raw, "")
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	if len(digits) != 10 {
		return constants.NotAvailable
	}
	return digits
}

func present(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != constants.NotAvailable
}
