package extract

import (
	"context"
	"regexp"
	"strings"
)

// PersonTagger lists person names found in text, most confident first. The
// named-entity model behind it is an external collaborator; failures degrade
// to an empty result at the call site.
type PersonTagger interface {
	Persons(ctx context.Context, text string) ([]string, error)
}

var reNameWord = regexp.MustCompile(`^[A-Z][a-zA-Z'.-]*$`)

// HeadingTagger is a model-free PersonTagger: it scans the first lines of a
// resume for a line that looks like a person's name (two to four capitalized
// words, no digits or addresses). Resumes almost always lead with the name.
type HeadingTagger struct {
	// MaxLines bounds the scan window; 0 means 6.
	MaxLines int
}

func (h HeadingTagger) Persons(_ context.Context, text string) ([]string, error) {
	maxLines := h.MaxLines
	if maxLines <= 0 {
		maxLines = 6
	}

	var persons []string
	seen := 0
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		seen++
		if seen > maxLines {
			break
		}
		if looksLikeName(ln) {
			persons = append(persons, ln)
		}
	}
	return persons, nil
}

func looksLikeName(line string) bool {
	if strings.ContainsAny(line, "@0123456789:/,") {
		return false
	}
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		if !reNameWord.MatchString(w) {
			return false
		}
	}
	return true
}
