package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
)

type stubExtractor struct {
	text  string
	calls int
}

func (s *stubExtractor) ExtractText(data []byte) string {
	s.calls++
	return s.text
}

func (s *stubExtractor) ExtractTextFromFile(path string) string {
	s.calls++
	return s.text
}

type fakeAssessor struct {
	reply              Reply
	calls              int
	lastResume, lastJD string
}

func (f *fakeAssessor) Assess(_ context.Context, resumeText, jobDescription string) Reply {
	f.calls++
	f.lastResume = resumeText
	f.lastJD = jobDescription
	return f.reply
}

func TestAnalyzeNoTextSkipsAssessor(t *testing.T) {
	for _, text := range []string{"", "   \n\t"} {
		assessor := &fakeAssessor{reply: Reply{Kind: ReplySuccess, Text: "Score: 90"}}
		analyzer := NewAnalyzerService(&stubExtractor{text: text}, assessor, zap.NewNop())

		result := analyzer.Analyze(context.Background(), []byte("scan"), "Go developer")

		assert.Zero(t, assessor.calls)
		assert.Equal(t, "", result.ExtractedText)
		assert.Equal(t, NoTextMessage, result.AIReply)
		assert.Equal(t, 0, result.MatchScore)
		assert.Nil(t, result.Reply)
	}
}

func TestAnalyzeCallsAssessorOnce(t *testing.T) {
	replies := []string{
		"1. Match score: 81\n2. Strengths: Go",
		"Overall fit 64%",
		"Looks fine.",
	}

	for _, text := range replies {
		extractor := &stubExtractor{text: "Jane Doe\nGo, Kubernetes"}
		assessor := &fakeAssessor{reply: Reply{Kind: ReplySuccess, Text: text}}
		analyzer := NewAnalyzerService(extractor, assessor, zap.NewNop())

		result := analyzer.Analyze(context.Background(), []byte("%PDF-1.4"), "Senior Go developer")

		assert.Equal(t, 1, extractor.calls)
		assert.Equal(t, 1, assessor.calls)
		assert.Equal(t, "Jane Doe\nGo, Kubernetes", assessor.lastResume)
		assert.Equal(t, "Senior Go developer", assessor.lastJD)
		assert.Equal(t, "Jane Doe\nGo, Kubernetes", result.ExtractedText)
		assert.Equal(t, text, result.AIReply)
		assert.Equal(t, ParseScore(result.AIReply), result.MatchScore)
		require.NotNil(t, result.Reply)
		assert.True(t, result.Reply.OK())
	}
}

func TestAnalyzeSoftFailureIsRenderedIntoReply(t *testing.T) {
	assessor := &fakeAssessor{reply: Reply{Kind: ReplyRemoteError, Provider: "OpenRouter", Status: 429, Body: "rate limited"}}
	analyzer := NewAnalyzerService(&stubExtractor{text: "Jane Doe"}, assessor, zap.NewNop())

	result := analyzer.Analyze(context.Background(), nil, "Go developer")

	assert.Equal(t, "Error from OpenRouter: 429 Too Many Requests. Details: rate limited", result.AIReply)
	assert.Equal(t, 0, result.MatchScore)
	require.NotNil(t, result.Reply)
	assert.Equal(t, ReplyRemoteError, result.Reply.Kind)
}

func TestAnalyzeWithoutCredential(t *testing.T) {
	assessor := NewOpenRouterService(config.OpenRouterConfig{
		BaseURL: "http://127.0.0.1:1",
		Model:   "openrouter/free",
	}, zap.NewNop())
	analyzer := NewAnalyzerService(&stubExtractor{text: "Jane Doe"}, assessor, zap.NewNop())

	result := analyzer.Analyze(context.Background(), nil, "Go developer")

	assert.Equal(t, "Jane Doe", result.ExtractedText)
	assert.Equal(t, MissingOpenRouterKeyMessage, result.AIReply)
	assert.Equal(t, ParseScore(MissingOpenRouterKeyMessage), result.MatchScore)
	assert.Equal(t, 0, result.MatchScore)
	require.NotNil(t, result.Reply)
	assert.Equal(t, ReplyConfigError, result.Reply.Kind)
}

func TestAnalyzeWithRealParser(t *testing.T) {
	assessor := &fakeAssessor{reply: Reply{Kind: ReplySuccess, Text: "Match score: 70"}}
	analyzer := NewAnalyzerService(NewPDFParserService(zap.NewNop()), assessor, zap.NewNop())

	result := analyzer.Analyze(context.Background(), buildPDF(textContent("Jane Doe Go Engineer")), "Go developer")

	assert.Contains(t, result.ExtractedText, "Jane Doe Go Engineer")
	assert.Equal(t, 1, assessor.calls)
	assert.Equal(t, 70, result.MatchScore)

	assessor.calls = 0
	result = analyzer.Analyze(context.Background(), []byte("not a pdf"), "Go developer")
	assert.Zero(t, assessor.calls)
	assert.Equal(t, NoTextMessage, result.AIReply)
}
