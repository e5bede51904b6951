package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T) *RegexExtractor {
	t.Helper()
	return NewRegexExtractor("IN", nil)
}

func TestEmails(t *testing.T) {
	x := newTestExtractor(t)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single email lowercased",
			text: "Contact: Asha.Rao@Example.COM",
			want: []string{"asha.rao@example.com"},
		},
		{
			name: "duplicates collapse, order preserved",
			text: "a@x.com b@y.org a@x.com",
			want: []string{"a@x.com", "b@y.org"},
		},
		{
			name: "no email",
			text: "no contact details here",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, x.Emails(tt.text))
		})
	}
}

func TestPhones(t *testing.T) {
	x := newTestExtractor(t)

	got := x.Phones("Mobile: +91 98765 43210 / 098765 43210, office 011-2345")
	// Both spellings of the same number collapse into one E.164 value.
	assert.Equal(t, []string{"+919876543210"}, got)

	assert.Empty(t, x.Phones("reference id 1234567890123456789"))
}

func TestExtract(t *testing.T) {
	x := newTestExtractor(t)

	text := strings.Join([]string{
		"Asha Rao",
		"Senior Engineer, Mumbai 400001",
		"Email: asha.rao@example.com | Phone: +91 98765 43210",
		"Current CTC: 12.5 LPA",
		"Notice Period: 2 months",
	}, "\n")

	got := x.Extract(text)
	assert.Equal(t, []string{"asha.rao@example.com"}, got.Emails)
	assert.Equal(t, []string{"+919876543210"}, got.Phones)
	assert.Equal(t, "400001", got.Pincode)
	assert.Equal(t, "12.5", got.CTC)
	assert.Equal(t, "60", got.NoticeDays)
	assert.NotEmpty(t, got.Summary)
}

func TestNoticeDays(t *testing.T) {
	x := newTestExtractor(t)

	tests := []struct {
		name   string
		text   string
		want   int
		wantOK bool
	}{
		{name: "days", text: "notice period: 30 days", want: 30, wantOK: true},
		{name: "weeks to days", text: "Notice: 2 weeks", want: 14, wantOK: true},
		{name: "months to days", text: "notice period - 3 months", want: 90, wantOK: true},
		{name: "absent", text: "immediate joiner", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := x.NoticeDays(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeadSummary(t *testing.T) {
	text := "line one\n\nline two\nline three\nline four\nline five"
	assert.Equal(t, "line one line two line three line four", HeadSummary(text))

	long := strings.Repeat("a", 600)
	assert.Len(t, HeadSummary(long), 500)

	assert.Equal(t, "", HeadSummary("\n\n"))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Asha Rao", FirstLine("\n  Asha Rao\nEngineer"))
	assert.Equal(t, "", FirstLine("  \n \n"))
}

func TestHeadingTaggerPersons(t *testing.T) {
	text := strings.Join([]string{
		"Asha Rao",
		"Senior Software Engineer",
		"asha@example.com",
		"Mumbai, Maharashtra",
	}, "\n")

	persons, err := HeadingTagger{}.Persons(context.Background(), text)
	require.NoError(t, err)
	require.NotEmpty(t, persons)
	// The heading heuristic is greedy; the name is always first.
	assert.Equal(t, "Asha Rao", persons[0])
}

func TestHeadingTaggerRejectsNonNames(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "single word", text: "Resume"},
		{name: "contains digits", text: "Asha Rao 1992"},
		{name: "contains email", text: "Asha Rao asha@example.com"},
		{name: "lowercase words", text: "curriculum vitae attached"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			persons, err := HeadingTagger{}.Persons(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Empty(t, persons)
		})
	}
}
