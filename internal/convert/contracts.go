package convert

import (
	"context"

	"github.com/hirestack/resume-intake/constants"
)

// TextConverter turns raw document bytes into per-page text.
type TextConverter interface {
	PagesText(data []byte) ([]string, error)
}

// OCREngine recognizes text in image-only documents. The engine itself is an
// external collaborator; the pipeline only depends on this contract.
type OCREngine interface {
	Recognize(ctx context.Context, data []byte) (string, error)
}

// Registry dispatches to the converter registered for a document format.
type Registry struct {
	byFormat map[string]TextConverter
}

// NewRegistry returns a registry with the built-in PDF and DOCX converters.
func NewRegistry() *Registry {
	return &Registry{byFormat: map[string]TextConverter{
		constants.PDF:  PDFConverter{},
		constants.DOCX: DOCXConverter{},
	}}
}

// Register overrides the converter for a format.
func (r *Registry) Register(format string, c TextConverter) {
	r.byFormat[format] = c
}

// For returns the converter for format, or nil when unsupported.
func (r *Registry) For(format string) TextConverter {
	return r.byFormat[format]
}
