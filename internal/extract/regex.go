package extract

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	reEmail    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	rePhone    = regexp.MustCompile(`\+?\d[\d\-\s()]{7,}\d`)
	rePincode  = regexp.MustCompile(`\b[1-9]\d{5}\b`)
	reCTC      = regexp.MustCompile(`(?i)(?:CTC|Current\s+CTC|Salary)\s*[:\-]?\s*([0-9]+(?:\.[0-9]+)?)\s*(?:LPA|Lacs|Lakhs?)`)
	reNotice   = regexp.MustCompile(`(?i)(?:notice period|notice)\s*[:\-]?\s*(\d{1,2})\s*(days?|weeks?|months?)`)
	reNonBlank = regexp.MustCompile(`\S`)
)

const summaryMaxLen = 500

// Extraction holds every field the deterministic extractor can produce.
// Empty means "no match"; callers never see an error from a failed pattern.
type Extraction struct {
	Emails     []string // ordered, deduplicated, lowercased
	Phones     []string // E.164, invalid candidates discarded
	Pincode    string
	CTC        string // lakhs-per-annum figure, e.g. "12.5"
	NoticeDays string // normalized to days
	Summary    string // first four non-empty lines of the document
}

// RegexExtractor pulls fields out of normalized text by pattern matching,
// independent of any model call.
type RegexExtractor struct {
	region string
	logger *slog.Logger
}

// NewRegexExtractor builds an extractor validating phone candidates against
// the given default region (e.g. "IN").
func NewRegexExtractor(region string, logger *slog.Logger) *RegexExtractor {
	if region == "" {
		region = "IN"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RegexExtractor{region: region, logger: logger}
}

// Extract runs every pattern over text and returns whatever matched.
func (x *RegexExtractor) Extract(text string) Extraction {
	out := Extraction{
		Emails: x.Emails(text),
		Phones: x.Phones(text),
	}
	if m := rePincode.FindString(text); m != "" {
		out.Pincode = m
	}
	if m := reCTC.FindStringSubmatch(text); m != nil {
		out.CTC = m[1]
	}
	if days, ok := x.NoticeDays(text); ok {
		out.NoticeDays = strconv.Itoa(days)
	}
	out.Summary = HeadSummary(text)
	return out
}

// Emails returns every email in text, ordered, deduplicated, lowercased and
// trimmed of trailing punctuation.
func (x *RegexExtractor) Emails(text string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, m := range reEmail.FindAllString(text, -1) {
		e := strings.Trim(strings.ToLower(m), " ,;")
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Phones returns every valid phone number in text in E.164 form, ordered and
// deduplicated. Candidates that fail to parse or validate are dropped
// silently; they are noise, not errors.
func (x *RegexExtractor) Phones(text string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, m := range rePhone.FindAllString(text, -1) {
		num, err := phonenumbers.Parse(m, x.region)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		e164 := phonenumbers.Format(num, phonenumbers.E164)
		if _, dup := seen[e164]; dup {
			continue
		}
		seen[e164] = struct{}{}
		out = append(out, e164)
	}
	return out
}

// NoticeDays returns the notice period normalized to days: weeks are
// multiplied by 7 and months by 30.
func (x *RegexExtractor) NoticeDays(text string) (int, bool) {
	m := reNotice.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	val, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	unit := strings.ToLower(m[2])
	switch {
	case strings.HasPrefix(unit, "month"):
		val *= 30
	case strings.HasPrefix(unit, "week"):
		val *= 7
	}
	return val, true
}

// HeadSummary joins the first four non-empty lines of text, truncated to
// 500 characters.
func HeadSummary(text string) string {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if !reNonBlank.MatchString(ln) {
			continue
		}
		lines = append(lines, strings.TrimSpace(ln))
		if len(lines) == 4 {
			break
		}
	}
	if len(lines) == 0 {
		return ""
	}
	s := strings.Join(lines, " ")
	if len(s) > summaryMaxLen {
		s = s[:summaryMaxLen]
	}
	return s
}

// FirstLine returns the first non-empty line of text, used as a last-resort
// username heuristic.
func FirstLine(text string) string {
	for _, ln := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			return t
		}
	}
	return ""
}
