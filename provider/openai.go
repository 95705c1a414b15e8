package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hazyhaar/proofwatch/correction"
)

func init() {
	must(Register(Metadata{
		Name:        "openai",
		DisplayName: "OpenAI",
		RequiresKey: true,
	}, newOpenAI))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

const correctionPrompt = `You are a grammar and spelling checker. Given the user's text, return a JSON object:
{"corrected": "<the fully corrected text>", "changes": [{"original": "<exact fragment from the input>", "replacement": "<corrected fragment>", "explanation": "<one short sentence>"}]}
Rules: only fix spelling, grammar and punctuation. Never rephrase for style. Each "original" must be an exact substring of the input. If the text is already correct, return it unchanged with an empty "changes" array. Output only the JSON object.`

// openAI calls a chat-completion backend in JSON mode and validates the
// response shape before handing it to the engine.
type openAI struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

func newOpenAI(cfg Config) (Provider, error) {
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	return &openAI{
		client: openai.NewClientWithConfig(oc),
		model:  model,
		logger: logger,
	}, nil
}

func (p *openAI) Correct(ctx context.Context, text string) (*correction.Result, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: correctionPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("provider: openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("provider: openai: no choices in response")
	}

	res, err := parseResult(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("provider: openai correction",
		"model", p.model, "changes", len(res.Changes))
	return res, nil
}

// parseResult decodes and shape-checks a provider reply. Unknown fields are
// tolerated; a missing or inconsistent shape is a typed failure.
func parseResult(raw string) (*correction.Result, error) {
	raw = strings.TrimSpace(raw)
	// Some backends wrap JSON in a markdown fence despite JSON mode.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var res correction.Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, fmt.Errorf("provider: decode response: %w", err)
	}
	res.Normalize()
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return &res, nil
}
