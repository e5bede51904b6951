package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hirestack/resume-intake/internal/llm"
)

// Config for the Gemini client.
type Config struct {
	APIKey  string        // if empty, falls back to env GOOGLE_API_KEY
	BaseURL string        // default https://generativelanguage.googleapis.com/v1beta
	Model   string        // e.g. "gemini-2.0-flash"
	Timeout time.Duration // http client timeout
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}

// ExtractFields implements llm.FieldExtractor over the generateContent API.
// Every failure mode collapses into a failed outcome; reconciliation falls
// through to the regex and heuristic tiers, never a retry.
func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) llm.Outcome {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(req.Text),
		"filename_hint", req.FilenameHint,
	)

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": buildPrompt(req)}}},
		},
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)

	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Failed(err)
	}

	var gr struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &gr); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Failed(fmt.Errorf("decode gemini response: %w", err))
	}
	if len(gr.Candidates) == 0 {
		c.log.Error("llm.extract.no_candidates",
			"req_id", rid, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Failed(fmt.Errorf("no candidates in gemini response"))
	}
	var content strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		content.WriteString(p.Text)
	}

	block := llm.ExtractJSONBlock(content.String())
	if block == nil {
		c.log.Error("llm.extract.no_json_block",
			"req_id", rid, "content_len", content.Len(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Failed(fmt.Errorf("no JSON object in model reply"))
	}

	cleaned, dropped, err := llm.NormalizeAndSanitizeJSON(block, c.log)
	if err != nil {
		return llm.Failed(fmt.Errorf("sanitize model reply: %w", err))
	}

	schema := llm.BuildCandidateJSONSchema()
	if err := llm.ValidateCandidateJSON(schema, cleaned); err != nil {
		// lenient pass: drop strict optionals and re-validate
		lenient, lenientDropped, sErr := llm.SanitizeOptionalFields(cleaned)
		if sErr != nil {
			return llm.Failed(fmt.Errorf("lenient sanitize: %w", sErr))
		}
		if vErr := llm.ValidateCandidateJSON(schema, lenient); vErr != nil {
			c.log.Error("llm.extract.schema_validation_failed",
				"req_id", rid, "error", vErr,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return llm.Failed(fmt.Errorf("schema validation failed: %w", vErr))
		}
		c.log.Warn("llm.extract.lenient_sanitize_applied",
			"req_id", rid, "dropped", lenientDropped,
		)
		cleaned = lenient
		dropped = append(dropped, lenientDropped...)
	}

	var fields llm.CandidateFields
	if err := json.Unmarshal(cleaned, &fields); err != nil {
		return llm.Failed(fmt.Errorf("unmarshal fields: %w", err))
	}

	status := llm.StatusOK
	if len(dropped) > 0 {
		status = llm.StatusDegraded
	}
	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"status", string(status),
		"username", fields.Username,
		"email", fields.Email,
		"dropped", len(dropped),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return llm.Outcome{Status: status, Fields: fields, Raw: cleaned, Dropped: dropped}
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.log.Warn("gemini response body close error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
