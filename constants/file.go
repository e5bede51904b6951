package constants

import "strings"

// Document formats accepted at intake.
const (
	PDF  = "PDF"
	DOCX = "DOCX"
)

// AllowedExtensions holds the file extensions accepted for resume intake.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension to a document format, or "" if unsupported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "docx":
		return DOCX
	default:
		return ""
	}
}

// MapMediaTypeToFormat maps a declared media type to a document format, or "" if unsupported.
func MapMediaTypeToFormat(mediaType string) string {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "application/pdf":
		return PDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/msword":
		return DOCX
	default:
		return ""
	}
}
