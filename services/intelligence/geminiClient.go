// File: services/intelligence/geminiClient.go
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"beamhealth/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiProvider = "gemini"

const summarySystemInstruction = "You are a medical assistant that creates structured encounter summaries from consultation transcriptions."

// Summarizer turns a prompt into a structured encounter note.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (*models.SummaryContent, error)
}

// GeminiClient is a Summarizer backed by a Gemini model in JSON mode.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string, temperature float32) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = summarySchema()
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(summarySystemInstruction)}}

	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func (g *GeminiClient) Summarize(ctx context.Context, prompt string) (*models.SummaryContent, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, newProviderError(geminiProvider, fmt.Errorf("gemini generate error: %w", err))
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, newProviderError(geminiProvider, errors.New("gemini returned no candidates"))
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	content, err := parseSummary(sb.String())
	if err != nil {
		return nil, newProviderError(geminiProvider, err)
	}
	return content, nil
}

// parseSummary decodes the model's JSON answer, tolerating a markdown fence.
func parseSummary(text string) (*models.SummaryContent, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty summary response")
	}

	var content models.SummaryContent
	if err := json.Unmarshal([]byte(text), &content); err != nil {
		return nil, fmt.Errorf("unparseable summary response: %w", err)
	}
	if content.FollowUpQuestions == nil {
		content.FollowUpQuestions = []string{}
	}
	return &content, nil
}

func summarySchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"visit_summary":         str("Brief overview of the visit"),
			"diagnostic_assessment": str("Assessment and diagnosis"),
			"treatment_care_plan":   str("Treatment plan and medications"),
			"follow_up_duration":    str("Recommended follow-up interval such as \"2 weeks\"; never a date"),
			"follow_up_reason":      str("Why the follow-up is needed"),
			"patient_instructions":  str("Clear instructions for the patient"),
			"follow_up_questions": {
				Type:        genai.TypeArray,
				Description: "3-5 questions for the doctor to ask at follow-up",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: summaryKeys,
	}
}

var summaryKeys = []string{
	"visit_summary",
	"diagnostic_assessment",
	"treatment_care_plan",
	"follow_up_duration",
	"follow_up_reason",
	"patient_instructions",
	"follow_up_questions",
}
