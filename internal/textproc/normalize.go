package textproc

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reSpaceRuns  = regexp.MustCompile(`[ \t]+`)
	reHyphenWrap = regexp.MustCompile(`(\w)- ?\n(\w)`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// headerFooterMinLines is the document length above which the first and last
// two lines are treated as header/footer candidates.
const headerFooterMinLines = 6

// Normalize canonicalizes raw extracted text: NFKC composition, unified line
// endings, collapsed space runs, rejoined hyphenated line breaks, collapsed
// blank-line runs, and repeated header/footer lines stripped from the body.
// Normalize(Normalize(s)) == Normalize(s) for all s.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFKC.String(s)
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reSpaceRuns.ReplaceAllString(s, " ")
	// devel-\nopment -> development
	s = reHyphenWrap.ReplaceAllString(s, "$1$2")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	s = stripRepeatedBoilerplate(s)
	return strings.TrimSpace(s)
}

// stripRepeatedBoilerplate treats the first two and last two non-empty lines
// as header/footer candidates and drops body lines equal to any of them. The
// candidate lines themselves are kept, so a second pass finds nothing left to
// drop. Documents of six lines or fewer are returned unchanged, and if
// filtering would empty the body the original lines are kept instead.
func stripRepeatedBoilerplate(s string) string {
	lines := make([]string, 0, 32)
	for _, ln := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			lines = append(lines, t)
		}
	}
	if len(lines) <= headerFooterMinLines {
		return s
	}

	boiler := map[string]struct{}{
		lines[0]:            {},
		lines[1]:            {},
		lines[len(lines)-2]: {},
		lines[len(lines)-1]: {},
	}
	kept := lines[:2:2]
	for _, ln := range lines[2 : len(lines)-2] {
		if _, dup := boiler[ln]; dup {
			continue
		}
		kept = append(kept, ln)
	}
	if len(kept) == 2 && len(lines) > 4 {
		// filtering emptied the body; keep the original lines
		return strings.Join(lines, "\n")
	}
	kept = append(kept, lines[len(lines)-2], lines[len(lines)-1])
	return strings.Join(kept, "\n")
}
