package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const NoTextMessage = "Could not extract text from PDF. Please ensure the PDF contains selectable text (not a scanned image)."

type AnalysisResult struct {
	ExtractedText string
	AIReply       string
	MatchScore    int
	// Reply is nil when no text could be extracted and the model was not called.
	Reply *Reply
}

type AnalyzerService interface {
	Analyze(ctx context.Context, pdf []byte, jobDescription string) *AnalysisResult
}

type analyzerService struct {
	extractor TextExtractor
	assessor  Assessor
	log       *zap.Logger
}

func NewAnalyzerService(extractor TextExtractor, assessor Assessor, log *zap.Logger) AnalyzerService {
	return &analyzerService{
		extractor: extractor,
		assessor:  assessor,
		log:       log,
	}
}

// Analyze runs extract, assess and score in order. It never fails: every
// problem ends up as readable text in AIReply.
func (a *analyzerService) Analyze(ctx context.Context, pdf []byte, jobDescription string) *AnalysisResult {
	text := a.extractor.ExtractText(pdf)
	if strings.TrimSpace(text) == "" {
		a.log.Info("no extractable text, skipping assessment", zap.Int("pdf_size", len(pdf)))
		return &AnalysisResult{
			ExtractedText: "",
			AIReply:       NoTextMessage,
			MatchScore:    0,
		}
	}

	reply := a.assessor.Assess(ctx, text, jobDescription)
	aiReply := reply.String()
	score := ParseScore(aiReply)

	a.log.Info("resume analyzed",
		zap.Int("text_length", len(text)),
		zap.Stringer("reply_kind", reply.Kind),
		zap.Int("score", score),
	)

	return &AnalysisResult{
		ExtractedText: text,
		AIReply:       aiReply,
		MatchScore:    score,
		Reply:         &reply,
	}
}
