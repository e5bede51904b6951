package gender

import (
	"log/slog"
	"regexp"
	"strings"
)

// Gender is the resolved outcome of a weighted vote.
type Gender string

const (
	Male    Gender = "Male"
	Female  Gender = "Female"
	Unknown Gender = ""
)

// Evidence weights. The pronoun weight differs per call site and is set on
// the Scorer; the rest are fixed.
const (
	weightHonorific = 1
	weightEmail     = 2
	weightModel     = 3
	weightNameToken = 5
)

var (
	reMalePronoun   = regexp.MustCompile(`\b(he|him|his)\b`)
	reFemalePronoun = regexp.MustCompile(`\b(she|her|hers)\b`)
	reMaleTitle     = regexp.MustCompile(`(?i)\bMr\.?\b`)
	reFemaleTitle   = regexp.MustCompile(`(?i)\b(Ms|Mrs|Miss)\.?\b`)
)

// Vote accumulates weighted evidence for each side. Scores are non-negative;
// the raw totals are exposed so callers and tests can observe ties.
type Vote struct {
	Male   int
	Female int
}

// Resolve picks a side. All-zero evidence is Unknown. A tie resolves to Male:
// this matches the historical scoring and is pinned by tests, not a fairness
// judgment.
func (v Vote) Resolve() Gender {
	if v.Male == 0 && v.Female == 0 {
		return Unknown
	}
	if v.Male >= v.Female {
		return Male
	}
	return Female
}

// Scorer combines pronouns, honorifics, model output, the name reference
// table, and the email local part into a gender vote. Matching is
// case-insensitive throughout.
type Scorer struct {
	names         *NameTable
	pronounWeight int
	logger        *slog.Logger
}

// NewScorer builds a scorer over the given immutable name table.
// pronounWeight is 2 on the request path and 3 on the batch path.
func NewScorer(names *NameTable, pronounWeight int, logger *slog.Logger) *Scorer {
	if pronounWeight <= 0 {
		pronounWeight = 2
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{names: names, pronounWeight: pronounWeight, logger: logger}
}

// Score accumulates evidence from the resume text, the extracted name, the
// model-provided gender, and the candidate email. Any argument may be empty.
func (s *Scorer) Score(text, name, modelGender, email string) Vote {
	var v Vote
	lower := strings.ToLower(text)

	if reMalePronoun.MatchString(lower) {
		v.Male += s.pronounWeight
	}
	if reFemalePronoun.MatchString(lower) {
		v.Female += s.pronounWeight
	}

	if reMaleTitle.MatchString(text) {
		v.Male += weightHonorific
	}
	if reFemaleTitle.MatchString(text) {
		v.Female += weightHonorific
	}

	switch strings.ToLower(strings.TrimSpace(modelGender)) {
	case "male":
		v.Male += weightModel
	case "female":
		v.Female += weightModel
	}

	if s.names != nil && name != "" {
		for _, part := range strings.Fields(name) {
			if s.names.Male(part) {
				v.Male += weightNameToken
			}
			if s.names.Female(part) {
				v.Female += weightNameToken
			}
		}
	}

	if s.names != nil {
		if local := emailLocalName(email); local != "" {
			if s.names.Male(local) {
				v.Male += weightEmail
			}
			if s.names.Female(local) {
				v.Female += weightEmail
			}
		}
	}

	return v
}

// emailLocalName returns the part of an email before the '@' and before the
// first '.', e.g. "r" from "r.asha@x.com" or "asha_k" from "asha_k@x.com".
func emailLocalName(email string) string {
	if email == "" || !strings.Contains(email, "@") {
		return ""
	}
	local := strings.SplitN(email, "@", 2)[0]
	return strings.ToLower(strings.SplitN(local, ".", 2)[0])
}
