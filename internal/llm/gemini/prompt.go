package gemini

import (
	"strings"

	"github.com/hirestack/resume-intake/internal/llm"
)

const promptTextLimit = 12000

// buildPrompt asks for one JSON object keyed by the model field names. The
// empty-string placeholders keep weaker models from inventing their own keys.
func buildPrompt(req llm.ExtractRequest) string {
	var b strings.Builder
	b.WriteString("Extract resume information as JSON. Leave missing fields blank.\n")
	b.WriteString("Return ONLY a JSON object with exactly these keys:\n{\n")
	for i, k := range llm.ModelKeys {
		b.WriteString(`"`)
		b.WriteString(k)
		b.WriteString(`": ""`)
		if i < len(llm.ModelKeys)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
	b.WriteString("Dates must be YYYY-MM-DD. cv_finscore is a 0-10 BFSI fit score.\n")
	b.WriteString("Past companies, designations and durations are comma-separated strings.\n")
	if req.FilenameHint != "" {
		b.WriteString("Filename: " + req.FilenameHint + "\n")
	}
	b.WriteString("\nResume Text:\n")
	text := req.Text
	if len(text) > promptTextLimit {
		text = text[:promptTextLimit]
	}
	b.WriteString(text)
	return b.String()
}
