package constants

// NotAvailable is the sentinel standing in for a genuinely missing field.
// It is distinct from an absent key; which convention a call site uses is a
// policy choice, not a fork (see internal/reconcile).
const NotAvailable = "#N/A"

// CandidateColumns is the static whitelist of field names a canonical record
// may carry. The destination table exposes a subset of these; unknown keys
// are dropped silently before persistence.
var CandidateColumns = []string{
	"user_id", "username", "mobile_number", "email", "gender",
	"employed", "current_company", "current_designation", "destination", "work_experience",
	"current_location", "current_salary",
	"cv_username", "cv_mobile_number", "cv_gender", "cv_employed", "cv_current_company",
	"cv_sales_experience", "cv_work_experience", "cv_current_location", "cv_current_salary",
	"cv_jobrole", "cv_companyname", "cv_productscode", "cv_sub_productscode",
	"cv_departmentscode", "cv_sub_departmentscode", "cv_productspecializationcode",
	"cv_depatmentcategorycode", "cv_products_text", "cv_sub_products_text",
	"cv_specialization_text", "cv_departments_text", "cv_sub_departments_text",
	"cv_category_text", "cv_location_code", "cv_age", "cv_location_area",
	"cv_location_city", "cv_location_state", "cv_alternatephone", "cv_email",
	"cv_dateofbirth", "cv_preferredlocation", "cv_highestqualification",
	"cv_specialization", "cv_institutename", "cv_graduationyear", "cv_additionaldegrees",
	"cv_totalexperienceyears", "cv_currentcompany", "cv_currentdesignation",
	"cv_currentctc", "cv_expectedctc", "cv_noticeperiod", "cv_lastworkingday",
	"cv_pastcompanies", "cv_pastdesignations", "cv_pastduration",
	"cv_bfsisectorexperience", "cv_productexpertise", "cv_technicalskills",
	"cv_regulatoryknowledge", "cv_domainkeywords", "cv_teamhandlingexperienceyesno",
	"cv_achievements", "cv_revenuehandled", "cv_targetachievement", "cv_certifications",
	"cv_languagesknown", "cv_linkedinurl", "cv_cvscore", "cv_jobfitkeywords",
	"cv_possibleroles", "cv_relevantjdids", "cv_isleadershiprole", "cv_locationmatchscore",
	"cv_resumecompletenesscore", "cv_source", "cv_parsingstatus", "cv_parsingtimestamp",
	"cv_originalfilename", "cv_summary", "cv_pincode", "resume",
	"jobrole", "products", "sub_products", "location_code", "age",
}

var candidateColumnSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(CandidateColumns))
	for _, c := range CandidateColumns {
		s[c] = struct{}{}
	}
	return s
}()

// IsCandidateColumn reports whether name is in the canonical column whitelist.
func IsCandidateColumn(name string) bool {
	_, ok := candidateColumnSet[name]
	return ok
}
