package reconcile

import (
	"log/slog"
	"strings"

	"github.com/hirestack/resume-intake/internal/extract"
)

// ModelFieldMap maps model output keys to their canonical destination
// column. Model keys with no entry here are stored under their own name
// only.
var ModelFieldMap = map[string]string{
	"cv_username":          "username",
	"cv_mobile_number":     "mobile_number",
	"cv_gender":            "gender",
	"cv_current_company":   "current_company",
	"cv_jobrole":           "jobrole",
	"cv_location_city":     "current_location",
	"cv_current_salary":    "current_salary",
	"cv_products_text":     "products",
	"cv_sub_products_text": "sub_products",
	"cv_location_code":     "location_code",
	"cv_age":               "age",
}

// modelAliases maps model keys to the internal column the rest of the
// pipeline reads, without exposing the target through the request path.
var modelAliases = map[string]string{
	"cv_finscore": "cv_cvscore",
}

// APIColumns returns the destination column set for the request path: every
// canonical column a model key maps to, plus the fields the response carries
// under their own name.
func APIColumns() map[string]struct{} {
	cols := make(map[string]struct{}, len(ModelFieldMap)+3)
	for _, canonical := range ModelFieldMap {
		cols[canonical] = struct{}{}
	}
	cols["email"] = struct{}{}
	cols["cv_summary"] = struct{}{}
	cols["resume"] = struct{}{}
	return cols
}

// Inputs carries the per-source extraction results feeding a merge.
type Inputs struct {
	Model     map[string]string
	Regex     extract.Extraction
	Persons   []string
	FirstLine string
}

// Merger reconciles field values from the model, the deterministic
// extractors and the structural heuristics into one record.
type Merger struct {
	logger *slog.Logger
}

func NewMerger(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger}
}

// Merge builds a record from in. Precedence is fixed: model values form the
// base, deterministic regex hits override contact and summary fields, and
// structural heuristics fill only what is still empty.
func (m *Merger) Merge(in Inputs) Record {
	rec := NewRecord()

	// Tier 1: model output.
	for key, value := range in.Model {
		rec.Set(key, value)
		if canonical, ok := ModelFieldMap[key]; ok {
			rec.Set(canonical, value)
		}
		if alias, ok := modelAliases[key]; ok {
			rec.Set(alias, value)
		}
	}

	// Tier 2: deterministic overrides. A regex hit on these fields beats
	// whatever the model said.
	m.override(rec, "cv_email", "email", firstOf(in.Regex.Emails))
	m.override(rec, "cv_mobile_number", "mobile_number", firstOf(in.Regex.Phones))
	m.override(rec, "cv_pincode", "", in.Regex.Pincode)
	m.override(rec, "cv_summary", "", in.Regex.Summary)

	// Tier 3: heuristics fill remaining gaps only.
	if !rec.Has("cv_username") {
		name := firstOf(in.Persons)
		if name == "" {
			name = in.FirstLine
		}
		if name == "" {
			name = emailLocalPart(firstOf(in.Regex.Emails))
		}
		rec.Set("cv_username", name)
		rec.Set("username", name)
	}
	if !rec.Has("cv_currentctc") && in.Regex.CTC != "" {
		rec.Set("cv_currentctc", in.Regex.CTC)
	}
	if !rec.Has("cv_noticeperiod") && in.Regex.NoticeDays != "" {
		rec.Set("cv_noticeperiod", in.Regex.NoticeDays)
	}

	return rec
}

func (m *Merger) override(rec Record, key, canonical, value string) {
	if value == "" {
		return
	}
	if prev, ok := rec.Get(key); ok && prev != value {
		m.logger.Debug("model value overridden by extractor",
			slog.String("field", key))
	}
	rec.Set(key, value)
	if canonical != "" {
		rec.Set(canonical, value)
	}
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func emailLocalPart(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return ""
	}
	local := email[:at]
	if dot := strings.Index(local, "."); dot > 0 {
		local = local[:dot]
	}
	return local
}
