package textproc

import "unicode"

// MinTextChars is the number of non-whitespace characters a document must
// carry before it is trusted as real text rather than a scan.
const MinTextChars = 200

// NeedsOCR reports whether a document should be routed through optical
// recognition. pages is the per-page text produced by the converter and err
// its failure, if any. Counting stops as soon as the threshold is reached; a
// converter failure is treated as "assume scanned", never propagated, since
// this decision only gates a fallback path.
func NeedsOCR(pages []string, err error) bool {
	if err != nil {
		return true
	}
	count := 0
	for _, page := range pages {
		for _, r := range page {
			if unicode.IsSpace(r) {
				continue
			}
			count++
			if count >= MinTextChars {
				return false
			}
		}
	}
	return true
}
