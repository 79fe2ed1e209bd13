package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-curriculum-be/pkg/llm"
)

const (
	baseURL      = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel = "gemini-2.5-flash"
)

type GeminiProvider struct {
	APIKey    string
	ModelName string
	Client    *http.Client
}

// Ensure GeminiProvider implements Provider
var _ llm.Provider = &GeminiProvider{}

func NewGeminiProvider(apiKey, modelName string) *GeminiProvider {
	if modelName == "" {
		modelName = defaultModel
	}
	return &GeminiProvider{
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
	Thought    bool              `json:"thought,omitempty"`
}

type geminiContent struct {
	Parts []*geminiPart `json:"parts"`
	Role  string        `json:"role,omitempty"`
}

type geminiThinkingConfig struct {
	IncludeThoughts bool `json:"includeThoughts"`
}

type geminiGenerationConfig struct {
	Temperature     *float64              `json:"temperature,omitempty"`
	MaxOutputTokens int                   `json:"maxOutputTokens,omitempty"`
	ThinkingConfig  *geminiThinkingConfig `json:"thinkingConfig,omitempty"`
}

type geminiRequest struct {
	Contents         []*geminiContent        `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content *geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []*geminiCandidate `json:"candidates"`
}

// --- Interface Implementation ---

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, attachments []llm.Attachment, opts ...llm.Option) (string, error) {
	payload := g.buildRequest(prompt, attachments, false, opts...)

	body, err := g.post(ctx, g.model(opts...), "generateContent", payload)
	if err != nil {
		return "", err
	}

	var res geminiResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// GenerateStream issues a streamGenerateContent request with alt=sse and
// forwards every part to the handler in arrival order.
func (g *GeminiProvider) GenerateStream(ctx context.Context, prompt string, attachments []llm.Attachment, handler llm.ChunkHandler, opts ...llm.Option) error {
	payload := g.buildRequest(prompt, attachments, true, opts...)

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:streamGenerateContent?alt=sse", baseURL, g.model(opts...))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return err
	}
	req.Header.Set("x-goog-api-key", g.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.Client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		resBody, _ := io.ReadAll(res.Body)
		return fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	scanner := bufio.NewScanner(res.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}

		var chunk geminiResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Skip keep-alive or partial lines; the stream carries one JSON
			// object per data line.
			continue
		}
		if len(chunk.Candidates) == 0 || chunk.Candidates[0].Content == nil {
			continue
		}
		for _, part := range chunk.Candidates[0].Content.Parts {
			if part.Text == "" {
				continue
			}
			if err := handler(llm.Chunk{Text: part.Text, Thought: part.Thought}); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read gemini stream: %w", err)
	}
	return nil
}

func (g *GeminiProvider) buildRequest(prompt string, attachments []llm.Attachment, includeThoughts bool, opts ...llm.Option) *geminiRequest {
	options := &llm.Options{Temperature: 0.7}
	for _, opt := range opts {
		opt(options)
	}

	parts := []*geminiPart{{Text: prompt}}
	for _, att := range attachments {
		parts = append(parts, &geminiPart{
			InlineData: &geminiInlineData{
				MIMEType: att.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(att.Data),
			},
		})
	}

	genCfg := &geminiGenerationConfig{
		Temperature:     &options.Temperature,
		MaxOutputTokens: options.MaxTokens,
	}
	if includeThoughts {
		genCfg.ThinkingConfig = &geminiThinkingConfig{IncludeThoughts: true}
	}

	return &geminiRequest{
		Contents: []*geminiContent{
			{Parts: parts, Role: "user"},
		},
		GenerationConfig: genCfg,
	}
}

func (g *GeminiProvider) model(opts ...llm.Option) string {
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}
	if options.Model != "" {
		return options.Model
	}
	return g.ModelName
}

func (g *GeminiProvider) post(ctx context.Context, model, action string, payload *geminiRequest) ([]byte, error) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:%s", baseURL, model, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", g.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}
	return resBody, nil
}
