package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

// ScoreResult is what the scorer extracts from one resume. Score is expected
// in 0-100 but is not clamped here; Analysis is the scorer's full structured
// payload, stored opaquely on the candidate.
type ScoreResult struct {
	Score         float64
	CandidateName string
	Email         string
	Phone         string
	Analysis      json.RawMessage
}

// Scorer rates one resume against a job description. Implementations may
// fail; callers treat a failure as one failed item, never a batch failure.
type Scorer interface {
	Score(ctx context.Context, resumeText, jobDescription, experienceRequirement string) (*ScoreResult, error)
}

// EmbeddingProvider turns text into a vector for similarity search.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type geminiScorer struct {
	client        *genai.Client
	modelName     string
	embedModel    string
	promptBuilder *PromptBuilder
	maxRetries    int
}

// GeminiScorer scores resumes and embeds text with one shared client.
type GeminiScorer interface {
	Scorer
	EmbeddingProvider
}

// NewGeminiScorer builds the production scorer backed by Google Gemini.
func NewGeminiScorer(apiKey string, maxRetries int) (GeminiScorer, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiScorer{
		client:        client,
		modelName:     "gemini-2.5-flash",
		embedModel:    "text-embedding-004",
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}, nil
}

type atsResponse struct {
	CandidateName   string      `json:"candidate_name"`
	Email           string      `json:"email"`
	PhoneNumber     string      `json:"phone_number"`
	OverallATSScore json.Number `json:"overall_ats_score"`
}

func (g *geminiScorer) Score(ctx context.Context, resumeText, jobDescription, experienceRequirement string) (*ScoreResult, error) {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("resume text and job description must not be empty")
	}

	prompt := g.promptBuilder.BuildATSScoringPrompt(resumeText, jobDescription, experienceRequirement)

	raw, err := g.generateWithRetry(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ATS score: %w", err)
	}

	jsonStr := extractJSON(raw)

	var resp atsResponse
	if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse ATS response: %w", err)
	}

	score, _ := resp.OverallATSScore.Float64()

	return &ScoreResult{
		Score:         score,
		CandidateName: strings.TrimSpace(resp.CandidateName),
		Email:         strings.TrimSpace(resp.Email),
		Phone:         strings.TrimSpace(resp.PhoneNumber),
		Analysis:      json.RawMessage(jsonStr),
	}, nil
}

func (g *geminiScorer) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0.2)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  4096,
		ResponseMIMEType: "application/json",
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
		if err == nil && resp != nil {
			if text := resp.Text(); text != "" {
				return text, nil
			}
			err = fmt.Errorf("no text content in response")
		} else if err == nil {
			err = fmt.Errorf("no response generated (nil response)")
		}

		lastErr = err

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < g.maxRetries {
			log.Printf("⚠️  Gemini attempt %d failed: %v. Retrying...\n", attempt, err)
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", g.maxRetries, lastErr)
}

// Embed implements EmbeddingProvider for similar-candidate search.
func (g *geminiScorer) Embed(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// extractJSON strips markdown fences and surrounding prose from an LLM
// response that should contain a JSON object or array.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
