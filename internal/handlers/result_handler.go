package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

const (
	defaultListLimit    = 20
	maxListLimit        = 100
	defaultSimilarLimit = 5
)

type ResultHandler struct {
	resumeRepo repositories.ResumeRepository
	indexer    services.Indexer
	log        *zap.Logger
}

// NewResultHandler serves stored analyses. indexer may be nil.
func NewResultHandler(resumeRepo repositories.ResumeRepository, indexer services.Indexer, log *zap.Logger) *ResultHandler {
	return &ResultHandler{
		resumeRepo: resumeRepo,
		indexer:    indexer,
		log:        log,
	}
}

func parseResumeID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *ResultHandler) notFoundOrError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrResumeNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resume not found",
		})
	}

	logger.ForRequest(h.log, c).Error("failed to load resume", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to load resume",
	})
}

// HandleGetResult handles GET /resumes/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	id, ok := parseResumeID(c)
	if !ok {
		return badRequest(c, "Invalid resume ID format")
	}

	resume, err := h.resumeRepo.FindByID(id)
	if err != nil {
		return h.notFoundOrError(c, err)
	}

	return c.JSON(resume)
}

// HandleList handles GET /resumes
func (h *ResultHandler) HandleList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	items, total, err := h.resumeRepo.List(limit, offset)
	if err != nil {
		logger.ForRequest(h.log, c).Error("failed to list resumes", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list resumes",
		})
	}

	return c.JSON(models.ResumeListResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// HandleSimilar handles GET /resumes/:id/similar
func (h *ResultHandler) HandleSimilar(c *fiber.Ctx) error {
	if h.indexer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Similarity index is disabled",
		})
	}

	id, ok := parseResumeID(c)
	if !ok {
		return badRequest(c, "Invalid resume ID format")
	}

	limit := c.QueryInt("limit", defaultSimilarLimit)
	if limit <= 0 || limit > maxListLimit {
		limit = defaultSimilarLimit
	}

	items, err := h.indexer.Similar(c.UserContext(), id, limit)
	if err != nil {
		return h.notFoundOrError(c, err)
	}

	return c.JSON(models.SimilarResponse{
		ID:    id,
		Items: items,
	})
}
