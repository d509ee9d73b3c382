// Package llm adapts hosted language models to the dialogue generator
// contract.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AndrewKaranu/ScamShield/internal/call"
	"github.com/AndrewKaranu/ScamShield/internal/scenario"
)

const (
	anthropicVersion = "2023-06-01"
	defaultModel     = "claude-3-haiku-20240307"
	maxReplyTokens   = 1024
)

var _ call.Generator = (*AnthropicClient)(nil)

// AnthropicClient generates persona replies through the Anthropic messages
// API, surfacing tool_use blocks as structured invocations.
type AnthropicClient struct {
	HTTPClient *http.Client
	APIKey     string
	Model      string
	BaseURL    string
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema toolInputSchema `json:"input_schema"`
}

type toolInputSchema struct {
	Type       string                  `json:"type"`
	Properties map[string]toolProperty `json:"properties"`
	Required   []string                `json:"required,omitempty"`
}

type toolProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

type messagesRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	Tools     []anthropicTool    `json:"tools,omitempty"`
}

type contentBlock struct {
	Type  string                 `json:"type"`
	Text  string                 `json:"text,omitempty"`
	Name  string                 `json:"name,omitempty"`
	Input map[string]interface{} `json:"input,omitempty"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Content    []contentBlock `json:"content"`
}

func NewAnthropicClient(apiKey, model string) *AnthropicClient {
	if model == "" {
		model = defaultModel
	}
	return &AnthropicClient{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    "https://api.anthropic.com",
	}
}

// Generate produces the persona's next turn. Tool invocations whose name is
// not in the persona's declared schemas are dropped.
func (c *AnthropicClient) Generate(ctx context.Context, transcript []call.Turn, persona *scenario.Persona) (call.GenerationResult, error) {
	if c.APIKey == "" {
		return call.GenerationResult{}, fmt.Errorf("anthropic api key missing")
	}
	endpoint := c.BaseURL + "/v1/messages"

	body := messagesRequest{
		Model:     c.Model,
		MaxTokens: maxReplyTokens,
		Messages:  buildMessages(transcript),
	}
	if persona != nil {
		body.System = persona.SystemPrompt
		body.Tools = buildTools(persona.Tools)
	}

	reqBody, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return call.GenerationResult{}, err
	}
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return call.GenerationResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return call.GenerationResult{}, fmt.Errorf("anthropic error: status=%d body=%s", resp.StatusCode, string(b))
	}
	var mr messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return call.GenerationResult{}, err
	}

	var result call.GenerationResult
	var text strings.Builder
	for _, block := range mr.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			if persona == nil || !persona.DeclaresTool(block.Name) {
				continue
			}
			result.ToolInvocations = append(result.ToolInvocations, call.ToolInvocation{
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}
	result.Text = strings.TrimSpace(text.String())
	return result, nil
}

// buildMessages maps the call transcript onto the API's user/assistant
// roles. Empty turns are skipped, and because the messages API requires the
// conversation to open with a user turn, a neutral connect marker is
// prepended when the persona spoke first.
func buildMessages(transcript []call.Turn) []anthropicMessage {
	msgs := make([]anthropicMessage, 0, len(transcript)+1)
	for _, turn := range transcript {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		role := "user"
		if turn.Role == call.SpeakerAgent {
			role = "assistant"
		}
		msgs = append(msgs, anthropicMessage{Role: role, Content: content})
	}
	if len(msgs) == 0 || msgs[0].Role != "user" {
		msgs = append([]anthropicMessage{{Role: "user", Content: "[call connected]"}}, msgs...)
	}
	return msgs
}

func buildTools(tools []scenario.Tool) []anthropicTool {
	out := make([]anthropicTool, 0, len(tools))
	for _, t := range tools {
		props := make(map[string]toolProperty, len(t.Parameters.Properties))
		for name, p := range t.Parameters.Properties {
			props[name] = toolProperty{Type: p.Type, Description: p.Description, Enum: p.Enum}
		}
		out = append(out, anthropicTool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: toolInputSchema{
				Type:       t.Parameters.Type,
				Properties: props,
				Required:   t.Parameters.Required,
			},
		})
	}
	return out
}
