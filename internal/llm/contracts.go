package llm

import (
	"context"
	"encoding/json"
)

// CandidateFields is the normalized shape we want from the model. Every field
// is a string; list-valued answers are coerced to comma-joined strings during
// sanitization. Empty means the model had nothing.
type CandidateFields struct {
	Username             string `json:"cv_username,omitempty"`
	MobileNumber         string `json:"cv_mobile_number,omitempty"`
	Email                string `json:"cv_email,omitempty"`
	Gender               string `json:"cv_gender,omitempty"`
	DateOfBirth          string `json:"cv_dateofbirth,omitempty"` // YYYY-MM-DD
	GraduationYear       string `json:"cv_graduationyear,omitempty"`
	CurrentCompany       string `json:"cv_current_company,omitempty"`
	CurrentDesignation   string `json:"cv_currentdesignation,omitempty"`
	TotalExperienceYears string `json:"cv_totalexperienceyears,omitempty"`
	LocationArea         string `json:"cv_location_area,omitempty"`
	LocationCity         string `json:"cv_location_city,omitempty"`
	LocationState        string `json:"cv_location_state,omitempty"`
	CurrentLocation      string `json:"cv_current_location,omitempty"`
	CurrentSalary        string `json:"cv_current_salary,omitempty"`
	JobRole              string `json:"cv_jobrole,omitempty"`
	Products             string `json:"cv_products_text,omitempty"`
	SubProducts          string `json:"cv_sub_products_text,omitempty"`
	CurrentCTC           string `json:"cv_currentctc,omitempty"`
	NoticePeriod         string `json:"cv_noticeperiod,omitempty"`
	Pincode              string `json:"cv_pincode,omitempty"`
	Summary              string `json:"cv_summary,omitempty"`
	FinScore             string `json:"cv_finscore,omitempty"` // 0-10 fit score, normalized later
	PastCompanies        string `json:"cv_pastcompanies,omitempty"`
	PastDesignations     string `json:"cv_pastdesignations,omitempty"`
	PastDuration         string `json:"cv_pastduration,omitempty"`
}

// AsMap flattens the fields into model-key -> value, dropping empties.
func (f CandidateFields) AsMap() map[string]string {
	b, err := json.Marshal(f)
	if err != nil {
		return map[string]string{}
	}
	m := map[string]string{}
	_ = json.Unmarshal(b, &m)
	return m
}

// Status classifies an extraction outcome so the reconciler (and tests) can
// assert on degradation paths instead of on the absence of errors.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded" // model answered, parts dropped during sanitization
	StatusFailed   Status = "failed"   // no usable model output; reconciliation falls through
)

// Outcome is the explicit result variant of a model extraction. Err is
// informational; a failed outcome degrades to an empty field set and is never
// retried.
type Outcome struct {
	Status  Status
	Fields  CandidateFields
	Raw     []byte // model response content after salvage, for audit
	Dropped []string
	Err     error
}

// Failed builds a failed outcome carrying err.
func Failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}

// ExtractRequest carries the normalized resume text plus hints to the model.
type ExtractRequest struct {
	Text         string
	FilenameHint string
	SourceTag    string
}

// FieldExtractor is the interface the pipeline depends on.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) Outcome
}
