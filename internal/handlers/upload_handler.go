package handlers

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

const (
	msgInvalidFile    = "Please upload a valid PDF file."
	msgMissingJob     = "Please enter a job description."
	msgOnlyPDF        = "Only PDF files are allowed."
	msgAnalysisFailed = "An error occurred while analyzing the resume. Please try again."
)

type UploadHandler struct {
	resumeRepo  repositories.ResumeRepository
	analyzer    services.AnalyzerService
	indexer     services.Indexer
	validate    *validator.Validate
	maxFileSize int64
	log         *zap.Logger
}

// NewUploadHandler wires the analysis flow. indexer may be nil.
func NewUploadHandler(
	resumeRepo repositories.ResumeRepository,
	analyzer services.AnalyzerService,
	indexer services.Indexer,
	maxFileSize int64,
	log *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		resumeRepo:  resumeRepo,
		analyzer:    analyzer,
		indexer:     indexer,
		validate:    newValidator(),
		maxFileSize: maxFileSize,
		log:         log,
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

// HandleUpload handles POST /resumes
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil || file == nil || file.Size == 0 {
		return badRequest(c, msgInvalidFile)
	}

	req := models.AnalyzeRequest{JobDescription: c.FormValue("job_description")}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, msgMissingJob)
	}

	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return badRequest(c, msgOnlyPDF)
	}

	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		return badRequest(c, fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	src, err := file.Open()
	if err != nil {
		return badRequest(c, msgInvalidFile)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return badRequest(c, msgInvalidFile)
	}

	if mtype := mimetype.Detect(data); !mtype.Is("application/pdf") {
		logger.ForRequest(h.log, c).Info("rejected upload with non-PDF content",
			zap.String("file_name", file.Filename),
			zap.String("mime", mtype.String()),
		)
		return badRequest(c, msgOnlyPDF)
	}

	result := h.analyzer.Analyze(c.UserContext(), data, req.JobDescription)

	resume := &models.Resume{
		FileName:       file.Filename,
		JobDescription: req.JobDescription,
		ResumeText:     result.ExtractedText,
		AIResult:       result.AIReply,
		Score:          result.MatchScore,
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.resumeRepo.Create(resume); err != nil {
		logger.ForRequest(h.log, c).Error("error processing resume", zap.String("file_name", file.Filename), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": msgAnalysisFailed,
		})
	}

	if h.indexer != nil && resume.ResumeText != "" {
		h.indexer.Enqueue(resume.ID)
	}

	return c.Status(fiber.StatusCreated).JSON(models.AnalyzeResponse{
		ID:        resume.ID,
		FileName:  resume.FileName,
		Score:     resume.Score,
		AIResult:  resume.AIResult,
		CreatedAt: resume.CreatedAt,
	})
}
