package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirestack/resume-intake/constants"
	"github.com/hirestack/resume-intake/internal/common"
	"github.com/hirestack/resume-intake/internal/convert"
	"github.com/hirestack/resume-intake/internal/gender"
	"github.com/hirestack/resume-intake/internal/llm"
	"github.com/hirestack/resume-intake/internal/location"
	"github.com/hirestack/resume-intake/internal/reconcile"
)

var fixedNow = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

const resumeText = `Asha Rao
Senior Relationship Manager
Email: asha.rao@example.com | Phone: +91 98765 43210
Mumbai, Maharashtra 400001
Current CTC: 12.5 LPA, Notice Period: 2 months
She has led retail banking teams for eight years.
Experienced in wealth products, branch operations and regulatory
compliance across western region markets.`

type fakeConverter struct {
	pages []string
	err   error
}

func (f fakeConverter) PagesText([]byte) ([]string, error) { return f.pages, f.err }

type fakeOCR struct {
	text   string
	err    error
	called bool
}

func (f *fakeOCR) Recognize(context.Context, []byte) (string, error) {
	f.called = true
	return f.text, f.err
}

type fakeModel struct {
	outcome llm.Outcome
}

func (f fakeModel) ExtractFields(context.Context, llm.ExtractRequest) llm.Outcome {
	return f.outcome
}

type fakeLocationStore struct{ id string }

func (f fakeLocationStore) ByCityState(context.Context, string, string) (string, error) {
	if f.id == "" {
		return "", location.ErrNoMatch
	}
	return f.id, nil
}
func (f fakeLocationStore) ByAreaCity(context.Context, string, string) (string, error) {
	return "", location.ErrNoMatch
}
func (f fakeLocationStore) ByFreeText(context.Context, string) (string, error) {
	return "", location.ErrNoMatch
}

// freeTextStore matches on the free-text lookup only, so it resolves a code
// exactly when the containment fallback fires.
type freeTextStore struct{ id string }

func (f freeTextStore) ByCityState(context.Context, string, string) (string, error) {
	return "", location.ErrNoMatch
}
func (f freeTextStore) ByAreaCity(context.Context, string, string) (string, error) {
	return "", location.ErrNoMatch
}
func (f freeTextStore) ByFreeText(_ context.Context, text string) (string, error) {
	if text == "" {
		return "", location.ErrNoMatch
	}
	return f.id, nil
}

func registryWith(pages []string, err error) *convert.Registry {
	r := convert.NewRegistry()
	r.Register(constants.PDF, fakeConverter{pages: pages, err: err})
	return r
}

func loadScorer(t *testing.T) *gender.Scorer {
	t.Helper()
	names, err := gender.LoadNameTable("")
	require.NoError(t, err)
	return gender.NewScorer(names, 2, nil)
}

func TestProcessUnsupportedFormat(t *testing.T) {
	p := NewProcessor(Options{Now: func() time.Time { return fixedNow }})

	_, err := p.Process(context.Background(), Document{Filename: "resume.xlsx"})
	assert.ErrorIs(t, err, common.ErrUnsupportedMediaType)

	_, err = p.Process(context.Background(), Document{Filename: "resume", MediaType: "image/png"})
	assert.ErrorIs(t, err, common.ErrUnsupportedMediaType)
}

func TestProcessFullPipeline(t *testing.T) {
	model := fakeModel{outcome: llm.Outcome{
		Status: llm.StatusOK,
		Fields: llm.CandidateFields{
			Username:       "Asha Rao",
			Gender:         "Female",
			CurrentCompany: "HDFC Bank",
			LocationCity:   "Mumbai",
			LocationState:  "Maharashtra",
			FinScore:       "85",
			DateOfBirth:    "1995-06-20",
		},
	}}

	p := NewProcessor(Options{
		Converters: registryWith([]string{resumeText}, nil),
		Model:      model,
		Gender:     loadScorer(t),
		Locations:  location.NewResolver(fakeLocationStore{id: "LOC-9"}, nil),
		Policy:     reconcile.OmitMissing,
		Now:        func() time.Time { return fixedNow },
	})

	rec, err := p.Process(context.Background(), Document{Filename: "asha.pdf"})
	require.NoError(t, err)

	want := map[string]string{
		"cv_username":         "Asha Rao",
		"username":            "Asha Rao",
		"cv_email":            "asha.rao@example.com",
		"email":               "asha.rao@example.com",
		"cv_mobile_number":    "9876543210",
		"mobile_number":       "9876543210",
		"cv_pincode":          "400001",
		"cv_currentctc":       "12.5",
		"cv_noticeperiod":     "60",
		"cv_gender":           "Female",
		"gender":              "Female",
		"cv_age":              "31",
		"age":                 "31",
		"cv_cvscore":          "8.5",
		"cv_location_code":    "LOC-9",
		"location_code":       "LOC-9",
		"current_company":     "HDFC Bank",
		"cv_originalfilename": "asha.pdf",
		"resume":              "uploaded_asha.pdf",
		"cv_source":           constants.DefaultSource,
		"cv_parsingstatus":    "PARSED",
		"cv_parsingtimestamp": "2026-03-15 10:30:00",
	}
	for key, v := range want {
		got, ok := rec.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, v, got, key)
	}
	assert.True(t, rec.Has("user_id"))
}

func TestProcessFreeTextLocationFallback(t *testing.T) {
	model := fakeModel{outcome: llm.Outcome{
		Status: llm.StatusOK,
		Fields: llm.CandidateFields{
			CurrentLocation: "Andheri West, Mumbai, Maharashtra",
		},
	}}
	p := NewProcessor(Options{
		Converters: registryWith([]string{resumeText}, nil),
		Model:      model,
		Gender:     loadScorer(t),
		Locations:  location.NewResolver(freeTextStore{id: "LOC-FREE"}, nil),
		Now:        func() time.Time { return fixedNow },
	})

	rec, err := p.Process(context.Background(), Document{Filename: "asha.pdf"})
	require.NoError(t, err)

	code, ok := rec.Get("cv_location_code")
	require.True(t, ok, "free-text location reaches the resolver")
	assert.Equal(t, "LOC-FREE", code)
}

func TestProcessScannedDocumentUsesOCR(t *testing.T) {
	ocr := &fakeOCR{text: resumeText}
	p := NewProcessor(Options{
		Converters: registryWith([]string{"   "}, nil),
		OCR:        ocr,
		Gender:     loadScorer(t),
		Now:        func() time.Time { return fixedNow }},
	)

	rec, err := p.Process(context.Background(), Document{Filename: "scan.pdf"})
	require.NoError(t, err)
	assert.True(t, ocr.called)

	email, _ := rec.Get("cv_email")
	assert.Equal(t, "asha.rao@example.com", email)
}

func TestProcessTextRichDocumentSkipsOCR(t *testing.T) {
	ocr := &fakeOCR{text: "should not be used"}
	p := NewProcessor(Options{
		Converters: registryWith([]string{resumeText}, nil),
		OCR:        ocr,
		Gender:     loadScorer(t),
		Now:        func() time.Time { return fixedNow },
	})

	_, err := p.Process(context.Background(), Document{Filename: "asha.pdf"})
	require.NoError(t, err)
	assert.False(t, ocr.called)
}

func TestProcessModelFailureDegrades(t *testing.T) {
	p := NewProcessor(Options{
		Converters: registryWith([]string{resumeText}, nil),
		Model:      fakeModel{outcome: llm.Failed(errors.New("quota exhausted"))},
		Gender:     loadScorer(t),
		Now:        func() time.Time { return fixedNow },
	})

	rec, err := p.Process(context.Background(), Document{Filename: "asha.pdf"})
	require.NoError(t, err)

	// Deterministic extraction still populates the record.
	email, _ := rec.Get("cv_email")
	assert.Equal(t, "asha.rao@example.com", email)
	username, _ := rec.Get("cv_username")
	assert.Equal(t, "Asha Rao", username)
}

func TestProcessConversionFailureWithoutOCR(t *testing.T) {
	p := NewProcessor(Options{
		Converters: registryWith(nil, errors.New("broken file")),
		Now:        func() time.Time { return fixedNow },
	})

	_, err := p.Process(context.Background(), Document{Filename: "broken.pdf"})
	assert.Error(t, err)
}

func TestProcessSentinelPolicy(t *testing.T) {
	text := strings.Join([]string{
		"Resume",
		"no contact details in this document at all, just prose about",
		"banking products and branch operations written across enough",
		"characters that the scan detector accepts it as real text and",
		"the pipeline proceeds through every stage without evidence.",
	}, "\n")

	p := NewProcessor(Options{
		Converters: registryWith([]string{text}, nil),
		Gender:     loadScorer(t),
		Policy:     reconcile.SentinelMissing,
		Now:        func() time.Time { return fixedNow },
	})

	rec, err := p.Process(context.Background(), Document{Filename: "sparse.pdf", SourceTag: "BULK"})
	require.NoError(t, err)

	g, ok := rec.Get("cv_gender")
	require.True(t, ok)
	assert.Equal(t, constants.NotAvailable, g)

	age, _ := rec.Get("cv_age")
	assert.Equal(t, constants.NotAvailable, age)

	score, _ := rec.Get("cv_cvscore")
	assert.Equal(t, "0", score)

	source, _ := rec.Get("cv_source")
	assert.Equal(t, "BULK", source)
}

func TestProcessMediaTypeBeatsExtension(t *testing.T) {
	p := NewProcessor(Options{
		Converters: registryWith([]string{resumeText}, nil),
		Gender:     loadScorer(t),
		Now:        func() time.Time { return fixedNow },
	})

	// Extension says nothing; the declared media type routes to PDF.
	_, err := p.Process(context.Background(), Document{
		Filename:  "upload.bin",
		MediaType: "application/pdf",
	})
	require.NoError(t, err)
}
