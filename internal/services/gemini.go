package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/logger"
)

const (
	geminiProvider = "Gemini"
	// embedding requests are capped at roughly 10k tokens
	maxEmbedInput = 40000
)

var ErrGeminiNotConfigured = errors.New("gemini api key is not configured")

// GeminiService assesses resumes with Gemini and produces embeddings for the similarity index.
type GeminiService interface {
	Assessor
	Embed(ctx context.Context, text string) ([]float32, error)
}

// geminiModels is the subset of genai.Models used here.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

type geminiService struct {
	models        geminiModels
	modelName     string
	embedModel    string
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

// NewGeminiService builds the client when a key is configured. Without a key
// the service still works and every Assess returns a config error reply.
func NewGeminiService(ctx context.Context, cfg config.GeminiConfig, log *zap.Logger) (GeminiService, error) {
	svc := &geminiService{
		modelName:     cfg.Model,
		embedModel:    cfg.EmbedModel,
		promptBuilder: NewPromptBuilder(),
		log:           log,
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return svc, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	svc.models = client.Models

	return svc, nil
}

// Assess implements Assessor.
func (g *geminiService) Assess(ctx context.Context, resumeText, jobDescription string) Reply {
	if g.models == nil {
		g.log.Warn("gemini api key is not configured")
		return Reply{Kind: ReplyConfigError, Provider: geminiProvider, Message: MissingGeminiKeyMessage}
	}

	prompt := g.promptBuilder.BuildAnalysisPrompt(resumeText, jobDescription)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	if err != nil {
		g.log.Error("gemini generate content failed", zap.Error(err))
		return Reply{Kind: ReplyTransportError, Provider: geminiProvider, Detail: err.Error()}
	}

	if resp == nil {
		return Reply{Kind: ReplyEmpty, Provider: geminiProvider}
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		g.log.Warn("gemini returned no text content")
		return Reply{Kind: ReplyEmpty, Provider: geminiProvider}
	}

	g.log.Debug("gemini generate content response",
		zap.String("response_preview", logger.TruncateForLog(text, maxLogLength)),
	)

	return Reply{Kind: ReplySuccess, Provider: geminiProvider, Text: text}
}

// Embed implements GeminiService.
func (g *geminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	if g.models == nil {
		return nil, ErrGeminiNotConfigured
	}

	text = truncateUTF8(text, maxEmbedInput)

	result, err := g.models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
