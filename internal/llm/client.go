package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go-hiring-ingest/internal/domain"
)

// InputCharLimit caps the extracted text sent to the model.
const InputCharLimit = 12000

// defaultTemperature is fixed low for deterministic JSON output.
const defaultTemperature = 0.1

// Config holds the hosted language model settings.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Pricing     Pricing
}

// Client calls a hosted chat-completions endpoint and parses the constrained
// JSON response into requisition fields. Implements domain.FieldExtractor.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log,
	}
}

func (c *Client) ModelID() string {
	return c.cfg.Model
}

// ExtractFields sends the (truncated) text to the model and returns the
// parsed fields plus token usage. A JSON parse or schema failure is a hard
// error; no partial result is returned.
func (c *Client) ExtractFields(ctx context.Context, text, filenameHint string) (*domain.ExtractedFields, error) {
	// Cap in characters so a multi-byte rune is never cut in half.
	if runes := []rune(text); len(runes) > InputCharLimit {
		text = string(runes[:InputCharLimit])
	}
	start := time.Now()

	schema := BuildJobFieldsSchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt()},
			{"role": "user", "content": userPrompt(text, filenameHint)},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Error("llm.extract.http_error", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return nil, fmt.Errorf("no choices in model response")
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	if err := ValidateJSONAgainstSchema(schema, content); err != nil {
		c.log.Error("llm.extract.schema_validation_failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	var fields domain.ParsedFields
	if err := json.Unmarshal(content, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	fields.Responsibilities = NormalizeList(fields.Responsibilities)
	fields.Skills = NormalizeList(fields.Skills)
	if fields.Title == "" {
		fields.Title = FallbackTitle(text, filenameHint)
	}

	usage := domain.TokenUsage{
		PromptTokens:     cc.Usage.PromptTokens,
		CompletionTokens: cc.Usage.CompletionTokens,
	}
	c.log.Info("llm.extract.ok",
		"model", c.cfg.Model,
		"title", fields.Title,
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
		"cost", c.cfg.Pricing.Cost(usage),
		"currency", c.cfg.Pricing.Currency,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &domain.ExtractedFields{Fields: fields, Usage: usage}, nil
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
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model http error: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("model status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
