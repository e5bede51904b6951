package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hirestack/resume-intake/constants"
	"github.com/hirestack/resume-intake/internal/common"
	"github.com/hirestack/resume-intake/internal/convert"
	"github.com/hirestack/resume-intake/internal/derive"
	"github.com/hirestack/resume-intake/internal/extract"
	"github.com/hirestack/resume-intake/internal/gender"
	"github.com/hirestack/resume-intake/internal/llm"
	"github.com/hirestack/resume-intake/internal/location"
	"github.com/hirestack/resume-intake/internal/reconcile"
	"github.com/hirestack/resume-intake/internal/textproc"
)

const timestampLayout = "2006-01-02 15:04:05"

// Document is one resume handed to the processor. MediaType takes precedence
// over the filename extension when both are present.
type Document struct {
	Data      []byte
	MediaType string
	Filename  string
	SourceTag string
}

// Clock lets tests pin the parsing timestamp and age computation.
type Clock func() time.Time

// Processor runs a document through conversion, normalization, extraction,
// reconciliation and derivation, producing one candidate record.
type Processor struct {
	logger     *slog.Logger
	converters *convert.Registry
	ocr        convert.OCREngine
	regex      *extract.RegexExtractor
	ner        extract.PersonTagger
	model      llm.FieldExtractor
	gender     *gender.Scorer
	locations  *location.Resolver
	merger     *reconcile.Merger
	policy     reconcile.MissingPolicy
	now        Clock
}

// Options configures a Processor. Converters defaults to the built-in
// registry, NER to the heading heuristic, and Now to time.Now. OCR, Model
// and Locations may be nil; the corresponding stage is skipped.
type Options struct {
	Logger     *slog.Logger
	Converters *convert.Registry
	OCR        convert.OCREngine
	Regex      *extract.RegexExtractor
	NER        extract.PersonTagger
	Model      llm.FieldExtractor
	Gender     *gender.Scorer
	Locations  *location.Resolver
	Policy     reconcile.MissingPolicy
	Now        Clock
}

func NewProcessor(opts Options) *Processor {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Converters == nil {
		opts.Converters = convert.NewRegistry()
	}
	if opts.Regex == nil {
		opts.Regex = extract.NewRegexExtractor("", opts.Logger)
	}
	if opts.NER == nil {
		opts.NER = extract.HeadingTagger{}
	}
	if opts.Gender == nil {
		opts.Gender = gender.NewScorer(nil, 0, opts.Logger)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Processor{
		logger:     opts.Logger,
		converters: opts.Converters,
		ocr:        opts.OCR,
		regex:      opts.Regex,
		ner:        opts.NER,
		model:      opts.Model,
		gender:     opts.Gender,
		locations:  opts.Locations,
		merger:     reconcile.NewMerger(opts.Logger),
		policy:     opts.Policy,
		now:        opts.Now,
	}
}

// Process runs doc through the full pipeline and returns the reconciled
// record. It fails only on unsupported formats and unreadable documents;
// extraction degradation is logged and absorbed.
func (p *Processor) Process(ctx context.Context, doc Document) (reconcile.Record, error) {
	format := p.detectFormat(doc)
	if format == "" {
		return reconcile.Record{}, common.NewAppError("UNSUPPORTED_MEDIA_TYPE",
			fmt.Sprintf("unsupported document type %q", doc.Filename), common.ErrUnsupportedMediaType)
	}

	text, err := p.extractText(ctx, doc, format)
	if err != nil {
		return reconcile.Record{}, err
	}
	text = textproc.Normalize(text)

	rx := p.regex.Extract(text)

	persons, err := p.ner.Persons(ctx, text)
	if err != nil {
		p.logger.Warn("person tagging failed", slog.String("file", doc.Filename), slog.Any("error", err))
		persons = nil
	}

	modelFields := map[string]string{}
	if p.model != nil {
		outcome := p.model.ExtractFields(ctx, llm.ExtractRequest{
			Text:         text,
			FilenameHint: doc.Filename,
			SourceTag:    doc.SourceTag,
		})
		switch outcome.Status {
		case llm.StatusFailed:
			p.logger.Warn("model extraction failed, continuing with deterministic fields",
				slog.String("file", doc.Filename), slog.Any("error", outcome.Err))
		case llm.StatusDegraded:
			p.logger.Warn("model extraction degraded",
				slog.String("file", doc.Filename), slog.Any("dropped", outcome.Dropped))
			modelFields = outcome.Fields.AsMap()
		default:
			modelFields = outcome.Fields.AsMap()
		}
	}

	rec := p.merger.Merge(reconcile.Inputs{
		Model:     modelFields,
		Regex:     rx,
		Persons:   persons,
		FirstLine: extract.FirstLine(text),
	})

	p.derive(ctx, rec, text)
	p.stamp(rec, doc)
	return rec, nil
}

func (p *Processor) detectFormat(doc Document) string {
	if doc.MediaType != "" {
		if f := constants.MapMediaTypeToFormat(doc.MediaType); f != "" {
			return f
		}
	}
	return constants.MapExtToFormat(filepath.Ext(doc.Filename))
}

func (p *Processor) extractText(ctx context.Context, doc Document, format string) (string, error) {
	conv := p.converters.For(format)
	if conv == nil {
		return "", common.NewAppError("UNSUPPORTED_MEDIA_TYPE",
			fmt.Sprintf("no converter for format %s", format), common.ErrUnsupportedMediaType)
	}

	pages, convErr := conv.PagesText(doc.Data)
	if !textproc.NeedsOCR(pages, convErr) {
		return joinPages(pages), nil
	}

	if p.ocr == nil {
		if convErr != nil {
			return "", common.WrapError(convErr, "document text extraction failed")
		}
		p.logger.Warn("document appears scanned and no OCR engine is configured",
			slog.String("file", doc.Filename))
		return joinPages(pages), nil
	}

	p.logger.Info("falling back to OCR", slog.String("file", doc.Filename))
	recognized, ocrErr := p.ocr.Recognize(ctx, doc.Data)
	if ocrErr != nil {
		p.logger.Warn("ocr failed", slog.String("file", doc.Filename), slog.Any("error", ocrErr))
		if convErr != nil {
			return "", common.WrapError(convErr, "document text extraction failed")
		}
		return joinPages(pages), nil
	}
	return recognized, nil
}

// derive fills the computed fields: gender vote, age, cleaned mobile,
// normalized score and the location code.
func (p *Processor) derive(ctx context.Context, rec reconcile.Record, text string) {
	name, _ := rec.Get("cv_username")
	modelGender, _ := rec.Get("cv_gender")
	email, _ := rec.Get("cv_email")
	g := p.gender.Score(text, name, modelGender, email).Resolve()
	if g == gender.Unknown {
		p.setOrSentinel(rec, "cv_gender", "gender", "")
	} else {
		rec.Set("cv_gender", string(g))
		rec.Set("gender", string(g))
	}

	dob, _ := rec.Get("cv_dateofbirth")
	gradYear, _ := rec.Get("cv_graduationyear")
	age := derive.Age(p.now(), dob, gradYear)
	if age != constants.NotAvailable || p.policy == reconcile.SentinelMissing {
		rec.Set("cv_age", age)
		rec.Set("age", age)
	}

	if mobile, ok := rec.Get("cv_mobile_number"); ok {
		cleaned := derive.CleanMobile(mobile)
		p.setOrSentinel(rec, "cv_mobile_number", "mobile_number", sentinelToEmpty(cleaned))
	}

	raw, hasScore := rec.Get("cv_cvscore")
	if p.policy == reconcile.SentinelMissing {
		rec.Set("cv_cvscore", derive.BatchScore(raw))
	} else if hasScore {
		if score, valid := derive.NormalizeScore(raw); valid {
			rec.Set("cv_cvscore", score)
		}
	}

	if p.locations != nil {
		area, _ := rec.Get("cv_location_area")
		city, _ := rec.Get("cv_location_city")
		state, _ := rec.Get("cv_location_state")
		free, _ := rec.Get("cv_current_location")
		code := p.locations.Resolve(ctx, location.Query{
			Area: area, City: city, State: state, FreeText: free,
		})
		p.setOrSentinel(rec, "cv_location_code", "location_code", sentinelToEmpty(code))
	}
}

// stamp writes the intake metadata: identity, provenance and status.
func (p *Processor) stamp(rec reconcile.Record, doc Document) {
	rec.Set("user_id", uuid.NewString())
	rec.Set("resume", "uploaded_"+doc.Filename)
	rec.Set("cv_originalfilename", doc.Filename)
	source := doc.SourceTag
	if source == "" {
		source = constants.DefaultSource
	}
	rec.Set("cv_source", source)
	rec.Set("cv_parsingstatus", string(constants.StatusParsed))
	rec.Set("cv_parsingtimestamp", p.now().Format(timestampLayout))
}

// setOrSentinel sets key (and optional canonical alias) to value. An empty
// value clears the field under OmitMissing and writes the sentinel under
// SentinelMissing.
func (p *Processor) setOrSentinel(rec reconcile.Record, key, canonical, value string) {
	if value == "" {
		if p.policy != reconcile.SentinelMissing {
			rec.Delete(key)
			if canonical != "" {
				rec.Delete(canonical)
			}
			return
		}
		value = constants.NotAvailable
	}
	rec.Set(key, value)
	if canonical != "" {
		rec.Set(canonical, value)
	}
}

func sentinelToEmpty(v string) string {
	if v == constants.NotAvailable {
		return ""
	}
	return v
}

func joinPages(pages []string) string {
	switch len(pages) {
	case 0:
		return ""
	case 1:
		return pages[0]
	}
	out := pages[0]
	for _, pg := range pages[1:] {
		out += "\n" + pg
	}
	return out
}
