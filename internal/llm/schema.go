package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ModelKeys lists every field name the model is asked for, in prompt order.
var ModelKeys = []string{
	"cv_username", "cv_mobile_number", "cv_email", "cv_gender",
	"cv_dateofbirth", "cv_graduationyear",
	"cv_current_company", "cv_currentdesignation", "cv_totalexperienceyears",
	"cv_location_area", "cv_location_city", "cv_location_state", "cv_current_location",
	"cv_current_salary", "cv_jobrole", "cv_products_text", "cv_sub_products_text",
	"cv_currentctc", "cv_noticeperiod", "cv_pincode", "cv_summary", "cv_finscore",
	"cv_pastcompanies", "cv_pastdesignations", "cv_pastduration",
}

// BuildCandidateJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is used locally to validate sanitized model output; every
// field is optional because a sparse resume legitimately yields few answers.
func BuildCandidateJSONSchema() map[string]any {
	props := make(map[string]any, len(ModelKeys))
	for _, k := range ModelKeys {
		props[k] = map[string]any{"type": "string"}
	}
	// tighter shapes where the contract is fixed
	props["cv_dateofbirth"] = map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}
	props["cv_graduationyear"] = map[string]any{"type": "string", "pattern": `^(19|20)\d{2}$`}
	props["cv_pincode"] = map[string]any{"type": "string", "pattern": `^[1-9]\d{5}$`}
	props["cv_finscore"] = map[string]any{"type": "string", "pattern": `^\d+(\.\d+)?$`}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

// optionalStrictKeys are the fields with tightened patterns above; when the
// whole document fails validation they are sanitized or dropped so the rest
// can survive.
var optionalStrictKeys = []string{"cv_dateofbirth", "cv_graduationyear", "cv_pincode", "cv_finscore"}

// ValidateCandidateJSON checks sanitized model output against the candidate
// field schema.
func ValidateCandidateJSON(schemaMap map[string]any, data []byte) error {
	raw, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal candidate schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("candidate.schema.json", bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("add candidate schema: %w", err)
	}
	schema, err := compiler.Compile("candidate.schema.json")
	if err != nil {
		return fmt.Errorf("compile candidate schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal model output: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("model output does not match candidate schema: %w", err)
	}
	return nil
}
