package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const systemMessage = `
Analyze the HTML document that begins after the line HTML-DOCUMENT.

Extract the following attributes of the page:

title - the human-readable page title
description - a short summary of the page content, from the meta description if present, otherwise your own one-sentence summary
canonical_url - the canonical URL of the page if declared, otherwise an empty string

Return the result as valid JSON without any commentary, example:

{
	"title": "Page title",
	"description": "Short description of the page",
	"canonical_url": "https://example.com/path"
}

HTML-DOCUMENT`

// PageMetadata is the strict JSON shape the model is asked to return.
type PageMetadata struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	CanonicalURL string `json:"canonical_url"`
}

type Extractor struct {
	openAIApiKey  string
	languageModel string
}

func NewExtractor(openaiApiKey, langModel string) *Extractor {
	return &Extractor{openAIApiKey: openaiApiKey, languageModel: langModel}
}

// ExtractMetadata asks the model to pull page metadata out of raw HTML.
func (e *Extractor) ExtractMetadata(html string) (*PageMetadata, error) {
	client := openai.NewClient(option.WithAPIKey(e.openAIApiKey))
	ctx := context.Background()

	slog.Debug("sending a page to the language model", "model", e.languageModel, "html_size", len(html))

	prompt := []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(systemMessage + "\n" + html),
	}
	params := openai.ChatCompletionNewParams{
		Messages: prompt,
		Model:    e.languageModel,
	}

	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case http.StatusTooManyRequests:
				return nil, errors.New("OpenAI API error: 429 Too many requests")
			case http.StatusForbidden:
				return nil, errors.New("OpenAI API error: 403 Forbidden")
			}
		}
		return nil, fmt.Errorf("failed to create completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, errors.New("got empty choices from the OpenAI API")
	}

	metadata := &PageMetadata{}
	raw := stripCodeFences(completion.Choices[0].Message.Content)
	if err = json.Unmarshal([]byte(raw), metadata); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}

	return metadata, nil
}

// stripCodeFences removes a markdown code block wrapper some models insist
// on adding around the JSON.
func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
