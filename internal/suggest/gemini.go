package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini suggests tags via the Gemini API. One attempt per call with a hard
// timeout; every failure path returns nil so the chain can fall back.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewGemini builds the LLM suggester. Construction needs network credentials
// only, not connectivity; call-time failures degrade silently.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration, logger *slog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model, timeout: timeout, logger: logger}, nil
}

// Close releases the underlying API client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *Gemini) Suggest(ctx context.Context, text string, pctx ProfileContext) []string {
	if len(strings.TrimSpace(text)) < minTextLen {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.1) // consistent extraction over creativity
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(text, pctx)))
	if err != nil {
		g.logger.Debug("llm tag extraction failed", "error", err)
		return nil
	}

	raw, err := extractText(resp)
	if err != nil {
		g.logger.Debug("llm response unusable", "error", err)
		return nil
	}

	var tags []string
	if err := json.Unmarshal([]byte(cleanJSONBlock(raw)), &tags); err != nil {
		g.logger.Debug("llm response not a JSON array", "error", err)
		return nil
	}
	return ValidateTags(tags)
}

func buildPrompt(text string, pctx ProfileContext) string {
	var b strings.Builder
	b.WriteString("Extract 3-5 meaningful tags from this civilian profile for defense and emergency coordination.\n\n")
	if pctx.EducationLevel != "" {
		fmt.Fprintf(&b, "Education: %s. ", pctx.EducationLevel)
	}
	if len(pctx.Skills) > 0 {
		limit := len(pctx.Skills)
		if limit > 5 {
			limit = 5
		}
		fmt.Fprintf(&b, "Skills: %s. ", strings.Join(pctx.Skills[:limit], ", "))
	}
	fmt.Fprintf(&b, "Profile text: %q\n\n", text)
	b.WriteString("Prioritize critical defense and infrastructure skills (drones, automation, ")
	b.WriteString("electrical, mechanical, cybersecurity, communications, defense, surveillance) ")
	b.WriteString("and traditional emergency skills (medical, technical, logistics, construction, ")
	b.WriteString("leadership, experience level).\n\n")
	b.WriteString("Return ONLY a JSON array of lowercase underscore-joined tags, no explanation.\n")
	b.WriteString(`Example: ["drones", "electrical", "veteran", "leadership"]`)
	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
