package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements Client on top of the openai-go SDK.
type OpenAIClient struct {
	client openai.Client
	model  string
	log    logging.Logger
}

// Option configures NewOpenAIClient.
type Option func(*settings)

type settings struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(u string) Option {
	return func(s *settings) { s.baseURL = u }
}

// WithModel selects the model name sent with every request.
func WithModel(m string) Option {
	return func(s *settings) { s.model = m }
}

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

const DefaultModel = "gemini-3-flash-preview"

// NewOpenAIClient builds a client for apiKey. It fails with ErrDisabled when
// apiKey is empty.
func NewOpenAIClient(apiKey string, log logging.Logger, opts ...Option) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}

	s := settings{model: DefaultModel}
	for _, o := range opts {
		o(&s)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// single-shot: a failed call is reported, not retried
		option.WithMaxRetries(0),
	}
	if s.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(s.baseURL))
	}
	if s.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(s.httpClient))
	}

	return &OpenAIClient{
		client: openai.NewClient(reqOpts...),
		model:  s.model,
		log:    log.With("module", "ai", "model", s.model),
	}, nil
}

// New returns an OpenAIClient when apiKey is set and Disabled otherwise.
func New(apiKey string, log logging.Logger, opts ...Option) Client {
	c, err := NewOpenAIClient(apiKey, log, opts...)
	if err != nil {
		log.Warn(context.Background(), "AI features disabled", "reason", err)
		return Disabled{}
	}
	return c
}

func (c *OpenAIClient) Enabled() bool { return true }

func (c *OpenAIClient) Summarize(ctx context.Context, content string) string {
	text, err := c.complete(ctx, "summarize", openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(summaryPrompt + content)},
	})
	if err != nil {
		if errors.Is(err, ErrEmptyResponse) {
			return SummaryFailed
		}
		c.log.Error(ctx, "summarize failed", "error", err)
		return SummaryError
	}
	return text
}

func (c *OpenAIClient) ExtractFromText(ctx context.Context, text string) (models.ExtractedFields, error) {
	prompt := fmt.Sprintf(textExtractionPrompt, categoryChoices(models.Categories)) + text

	return c.extract(ctx, "extract_text", openai.ChatCompletionNewParams{
		Model:          openai.ChatModel(c.model),
		Messages:       []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		ResponseFormat: jsonSchemaFormat("letter_text_metadata", textSchema),
	})
}

func (c *OpenAIClient) ExtractFromImage(ctx context.Context, base64Data, mimeType string) (models.ExtractedFields, error) {
	prompt := fmt.Sprintf(imageExtractionPrompt, categoryChoices(models.Categories))
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: "data:" + mimeType + ";base64," + base64Data,
		}),
		openai.TextContentPart(prompt),
	}

	return c.extract(ctx, "extract_image", openai.ChatCompletionNewParams{
		Model:          openai.ChatModel(c.model),
		Messages:       []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
		ResponseFormat: jsonSchemaFormat("letter_document_metadata", imageSchema),
	})
}

func (c *OpenAIClient) extract(ctx context.Context, op string, params openai.ChatCompletionNewParams) (models.ExtractedFields, error) {
	var out models.ExtractedFields

	text, err := c.complete(ctx, op, params)
	if errors.Is(err, ErrEmptyResponse) {
		return out, nil
	}
	if err != nil {
		c.log.Error(ctx, "extraction failed", "op", op, "error", err)
		return out, err
	}

	if err := json.Unmarshal([]byte(stripFence(text)), &out); err != nil {
		c.log.Error(ctx, "extraction returned invalid JSON", "op", op, "error", err)
		return models.ExtractedFields{}, fmt.Errorf("ai: decode %s: %w", op, err)
	}
	return out, nil
}

// complete sends one chat completion and returns the trimmed text of the
// first choice.
func (c *OpenAIClient) complete(ctx context.Context, op string, params openai.ChatCompletionNewParams) (string, error) {
	reqID := uuid.NewString()
	c.log.Debug(ctx, "ai request", "op", op, "request_id", reqID)

	resp, err := c.client.Chat.Completions.New(ctx, params, option.WithHeader("X-Request-Id", reqID))
	if err != nil {
		return "", fmt.Errorf("ai: %s: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func jsonSchemaFormat(name string, schema map[string]any) openai.ChatCompletionNewParamsResponseFormatUnion {
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:   name,
				Schema: schema,
			},
		},
	}
}

// stripFence removes a surrounding ```json fence some models add despite
// the requested response format.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
