package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "windows line endings unified",
			in:   "line one\r\nline two\rline three",
			want: "line one\nline two\nline three",
		},
		{
			name: "space runs collapsed",
			in:   "name:\t\tAsha   Rao",
			want: "name: Asha Rao",
		},
		{
			name: "hyphenated line break rejoined",
			in:   "devel-\nopment engineer",
			want: "development engineer",
		},
		{
			name: "blank line runs collapsed",
			in:   "summary\n\n\n\n\nexperience",
			want: "summary\n\nexperience",
		},
		{
			name: "fullwidth characters composed to ascii",
			in:   "ＡＢＣ　ｄｅｆ",
			want: "ABC def",
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  resume text \n",
			want: "resume text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeStripsRepeatedHeaderFooter(t *testing.T) {
	in := "Acme Staffing\nCONFIDENTIAL\nline a\nAcme Staffing\nline b\nCONFIDENTIAL\nline c\nPage\n1 of 2"
	got := Normalize(in)

	// The header lines stay where they first appear; repeats in the body go.
	assert.Equal(t, "Acme Staffing\nCONFIDENTIAL\nline a\nline b\nline c\nPage\n1 of 2", got)
}

func TestNormalizeShortDocumentKeptIntact(t *testing.T) {
	in := "a\nb\na\nb"
	assert.Equal(t, in, Normalize(in))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"devel-\nopment\r\nwith   spaces\n\n\n\nand more",
		"Acme Staffing\nCONFIDENTIAL\nline a\nAcme Staffing\nline b\nCONFIDENTIAL\nline c\nPage\n1 of 2",
		"h1\nh2\nbody\nbody\nbody\nf1\nf2",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNeedsOCR(t *testing.T) {
	long := make([]byte, MinTextChars)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name  string
		pages []string
		err   error
		want  bool
	}{
		{name: "conversion error forces ocr", pages: []string{string(long)}, err: assert.AnError, want: true},
		{name: "enough text", pages: []string{string(long)}, want: false},
		{name: "threshold reached across pages", pages: []string{string(long[:150]), string(long[:50])}, want: false},
		{name: "too little text", pages: []string{"short"}, want: true},
		{name: "no pages", pages: nil, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsOCR(tt.pages, tt.err))
		})
	}
}
