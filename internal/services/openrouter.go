package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/logger"
)

const (
	openRouterProvider = "OpenRouter"
	// PlaceholderAPIKey is the value shipped in sample configuration; it counts as unset.
	PlaceholderAPIKey = "YOUR_OPENAI_API_KEY"
	maxLogLength      = 200
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type openRouterService struct {
	cfg           config.OpenRouterConfig
	httpClient    *http.Client
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

func NewOpenRouterService(cfg config.OpenRouterConfig, log *zap.Logger) Assessor {
	return &openRouterService{
		cfg:           cfg,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		promptBuilder: NewPromptBuilder(),
		log:           log,
	}
}

func (o *openRouterService) endpoint() string {
	return strings.TrimRight(o.cfg.BaseURL, "/") + "/chat/completions"
}

// Assess implements Assessor.
func (o *openRouterService) Assess(ctx context.Context, resumeText, jobDescription string) Reply {
	apiKey := strings.TrimSpace(o.cfg.APIKey)
	if apiKey == "" || apiKey == PlaceholderAPIKey {
		o.log.Warn("openrouter api key is not configured")
		return Reply{Kind: ReplyConfigError, Provider: openRouterProvider, Message: MissingOpenRouterKeyMessage}
	}

	prompt := o.promptBuilder.BuildAnalysisPrompt(resumeText, jobDescription)
	body, err := json.Marshal(chatRequest{
		Model: o.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return Reply{Kind: ReplyTransportError, Provider: openRouterProvider, Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint(), bytes.NewReader(body))
	if err != nil {
		return Reply{Kind: ReplyTransportError, Provider: openRouterProvider, Detail: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", o.cfg.Referer)
	req.Header.Set("X-Title", o.cfg.Title)

	o.log.Debug("openrouter chat request",
		zap.String("model", o.cfg.Model),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		o.log.Error("openrouter request failed", zap.Error(err))
		return Reply{Kind: ReplyTransportError, Provider: openRouterProvider, Detail: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		o.log.Error("failed to read openrouter response", zap.Error(err))
		return Reply{Kind: ReplyTransportError, Provider: openRouterProvider, Detail: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		o.log.Warn("openrouter non-2xx",
			zap.Int("status", resp.StatusCode),
			zap.String("body", logger.TruncateForLog(string(respBody), maxLogLength)),
		)
		return Reply{
			Kind:     ReplyRemoteError,
			Provider: openRouterProvider,
			Status:   resp.StatusCode,
			Body:     string(respBody),
		}
	}

	var out chatResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		o.log.Error("openrouter decode error", zap.Error(err))
		return Reply{Kind: ReplyTransportError, Provider: openRouterProvider, Detail: fmt.Sprintf("failed to decode response: %v", err)}
	}

	if len(out.Choices) == 0 || out.Choices[0].Message == nil || out.Choices[0].Message.Content == "" {
		o.log.Warn("openrouter returned no content")
		return Reply{Kind: ReplyEmpty, Provider: openRouterProvider}
	}

	content := out.Choices[0].Message.Content
	o.log.Debug("openrouter chat response",
		zap.Int("response_length", utf8.RuneCountInString(content)),
		zap.String("response_preview", logger.TruncateForLog(content, maxLogLength)),
	)

	return Reply{Kind: ReplySuccess, Provider: openRouterProvider, Text: content}
}
