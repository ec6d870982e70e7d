package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const extractPrompt = "Extract the merchant name, total amount, and transaction date from this receipt. The date should be in YYYY-MM-DD format."

// Ensure OpenAIScanner implements Scanner
var _ Scanner = (*OpenAIScanner)(nil)

// OpenAIConfig configures a scanner against any OpenAI-compatible chat
// completions API (OpenAI itself, or Gemini's compatibility endpoint).
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// OpenAIScanner asks a vision model to read receipts, constraining the answer
// to a JSON schema.
type OpenAIScanner struct {
	client *openai.Client
	model  string
}

// NewOpenAIScanner builds a scanner from cfg.
func NewOpenAIScanner(cfg OpenAIConfig) *OpenAIScanner {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}
	return &OpenAIScanner{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

// receiptSchema mirrors Receipt; every field is required.
var receiptSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"merchantName": {
			Type:        jsonschema.String,
			Description: "The name of the merchant or store.",
		},
		"totalAmount": {
			Type:        jsonschema.Number,
			Description: "The final total amount of the transaction.",
		},
		"transactionDate": {
			Type:        jsonschema.String,
			Description: "The date of the transaction in YYYY-MM-DD format.",
		},
	},
	Required:             []string{"merchantName", "totalAmount", "transactionDate"},
	AdditionalProperties: false,
}

// Scan sends the image and prompt in one chat completion and parses the reply.
// Every error wraps ErrScanFailed.
func (s *OpenAIScanner) Scan(ctx context.Context, img Image) (Receipt, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    img.DataURL(),
							Detail: openai.ImageURLDetailAuto,
						},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: extractPrompt,
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "receipt",
				Schema: &receiptSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			slog.Error("Receipt scan API error",
				"model", s.model,
				"status", apiErr.HTTPStatusCode,
				"error", apiErr.Message,
			)
		} else {
			slog.Error("Receipt scan request failed", "model", s.model, "error", err)
		}
		return Receipt{}, fmt.Errorf("%w: %w", ErrScanFailed, err)
	}

	if len(resp.Choices) == 0 {
		return Receipt{}, fmt.Errorf("%w: %w: no choices in response", ErrScanFailed, ErrMalformedReceipt)
	}
	content := resp.Choices[0].Message.Content
	slog.Debug("Receipt scan response", "model", s.model, "content", content)

	parsed, err := parseReceiptJSON(content)
	if err != nil {
		slog.Warn("Receipt scan returned unusable data", "model", s.model, "error", err, "raw_text", content)
		return Receipt{}, fmt.Errorf("%w: %w", ErrScanFailed, err)
	}
	return parsed, nil
}

// parseReceiptJSON decodes the model's reply, tolerating a Markdown code fence.
func parseReceiptJSON(content string) (Receipt, error) {
	text := strings.TrimSpace(content)
	if rest, ok := strings.CutPrefix(text, "```"); ok {
		rest = strings.TrimPrefix(rest, "json")
		rest, _ = strings.CutSuffix(strings.TrimSpace(rest), "```")
		text = strings.TrimSpace(rest)
	}
	if text == "" {
		return Receipt{}, fmt.Errorf("%w: empty response", ErrMalformedReceipt)
	}

	// Decode into pointers so missing fields can be told apart from zero values.
	var raw struct {
		MerchantName    *string  `json:"merchantName"`
		TotalAmount     *float64 `json:"totalAmount"`
		TransactionDate *string  `json:"transactionDate"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrMalformedReceipt, err)
	}
	if raw.MerchantName == nil || raw.TotalAmount == nil || raw.TransactionDate == nil {
		return Receipt{}, fmt.Errorf("%w: missing required fields", ErrMalformedReceipt)
	}

	return Receipt{
		MerchantName:    *raw.MerchantName,
		TotalAmount:     *raw.TotalAmount,
		TransactionDate: *raw.TransactionDate,
	}.Normalize()
}
