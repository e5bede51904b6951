package constants

// ParseStatus is the canonical status recorded for a processed resume.
type ParseStatus string

// Stable values (store these exact strings in DB and batch logs).
const (
	StatusParsed ParseStatus = "PARSED"
	StatusError  ParseStatus = "ERROR"
)

// DefaultSource is the cv_source stamp used when the caller supplies none.
const DefaultSource = "OCR_UPLOAD"
