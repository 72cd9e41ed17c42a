package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

const queueSize = 100

var ErrNothingToIndex = errors.New("resume has no extracted text")

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Indexer embeds stored resumes in the background and answers similarity queries.
type Indexer interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(resumeID uint)
	IndexResume(ctx context.Context, resumeID uint) error
	Similar(ctx context.Context, resumeID uint, limit int) ([]models.SimilarResume, error)
}

type indexer struct {
	resumeRepo  repositories.ResumeRepository
	embedder    Embedder
	index       ResumeIndex
	log         *zap.Logger
	jobQueue    chan uint
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewIndexer(
	resumeRepo repositories.ResumeRepository,
	embedder Embedder,
	index ResumeIndex,
	concurrency int,
	log *zap.Logger,
) Indexer {
	if concurrency <= 0 {
		concurrency = 1
	}

	return &indexer{
		resumeRepo:  resumeRepo,
		embedder:    embedder,
		index:       index,
		log:         log,
		jobQueue:    make(chan uint, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Indexer.
func (w *indexer) Start(ctx context.Context) {
	w.log.Info("starting indexer", zap.Int("workers", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

// Stop implements Indexer.
func (w *indexer) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("stopping indexer")
		close(w.stopChan)
		w.wg.Wait()
		w.log.Info("indexer stopped")
	})
}

// Enqueue implements Indexer. It never blocks: when the queue is full the
// resume is dropped and can be indexed later with IndexResume.
func (w *indexer) Enqueue(resumeID uint) {
	select {
	case <-w.stopChan:
		w.log.Warn("indexer stopped, cannot enqueue resume", zap.Uint("resume_id", resumeID))
		return
	default:
	}

	select {
	case w.jobQueue <- resumeID:
		w.log.Debug("resume enqueued for indexing", zap.Uint("resume_id", resumeID))
	default:
		w.log.Warn("indexing queue full, dropping resume",
			zap.Uint("resume_id", resumeID),
			zap.Int("queue_size", cap(w.jobQueue)),
		)
	}
}

func (w *indexer) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case resumeID := <-w.jobQueue:
			log := w.log.With(zap.Int("worker", workerID), zap.Uint("resume_id", resumeID))
			if err := w.IndexResume(ctx, resumeID); err != nil {
				if errors.Is(err, ErrNothingToIndex) {
					log.Debug("resume skipped by indexer")
					continue
				}
				log.Warn("failed to index resume", zap.Error(err))
				continue
			}
			log.Info("resume indexed")
		}
	}
}

// IndexResume implements Indexer.
func (w *indexer) IndexResume(ctx context.Context, resumeID uint) error {
	resume, err := w.resumeRepo.FindByID(resumeID)
	if err != nil {
		return err
	}

	if strings.TrimSpace(resume.ResumeText) == "" {
		return ErrNothingToIndex
	}

	embedding, err := w.embedder.Embed(ctx, resume.ResumeText)
	if err != nil {
		return err
	}

	return w.index.UpsertResume(ctx, resume, embedding)
}

// Similar implements Indexer.
func (w *indexer) Similar(ctx context.Context, resumeID uint, limit int) ([]models.SimilarResume, error) {
	resume, err := w.resumeRepo.FindByID(resumeID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(resume.ResumeText) == "" {
		return []models.SimilarResume{}, nil
	}

	embedding, err := w.embedder.Embed(ctx, resume.ResumeText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed resume %d: %w", resumeID, err)
	}

	return w.index.SearchSimilar(ctx, embedding, resume.ID, limit)
}
