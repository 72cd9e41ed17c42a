package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// ResumeIndex stores one embedding per analysed resume.
type ResumeIndex interface {
	InitCollection(ctx context.Context) error
	UpsertResume(ctx context.Context, resume *models.Resume, embedding []float32) error
	SearchSimilar(ctx context.Context, embedding []float32, excludeID uint, limit int) ([]models.SimilarResume, error)
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	log            *zap.Logger
}

func NewQdrantService(urlStr, apiKey, collectionName string, log *zap.Logger) (ResumeIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, not the REST one from the URL default
	port := 6334
	if p := parsed.Port(); p != "" && p != "6333" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004
		log:            log,
	}, nil
}

// InitCollection implements ResumeIndex.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.log.Info("qdrant collection already exists", zap.String("collection", q.collectionName))
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.log.Info("qdrant collection created", zap.String("collection", q.collectionName))
	return nil
}

// UpsertResume implements ResumeIndex. The point id is the resume id.
func (q *qdrantService) UpsertResume(ctx context.Context, resume *models.Resume, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(resume.ID)),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"resume_id": int64(resume.ID),
			"file_name": resume.FileName,
			"score":     int64(resume.Score),
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchSimilar implements ResumeIndex.
func (q *qdrantService) SearchSimilar(ctx context.Context, embedding []float32, excludeID uint, limit int) ([]models.SimilarResume, error) {
	// one extra in case the resume itself comes back
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit + 1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]models.SimilarResume, 0, limit)
	for _, point := range points {
		result := similarFromPayload(point.Payload)
		result.Similarity = point.Score

		if result.ID == excludeID {
			continue
		}
		if len(results) == limit {
			break
		}
		results = append(results, result)
	}

	return results, nil
}

func similarFromPayload(payload map[string]*qdrant.Value) models.SimilarResume {
	var result models.SimilarResume

	if v, ok := payload["resume_id"]; ok {
		if val, ok := v.GetKind().(*qdrant.Value_IntegerValue); ok {
			result.ID = uint(val.IntegerValue)
		}
	}

	if v, ok := payload["file_name"]; ok {
		if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
			result.FileName = val.StringValue
		}
	}

	if v, ok := payload["score"]; ok {
		if val, ok := v.GetKind().(*qdrant.Value_IntegerValue); ok {
			result.Score = int(val.IntegerValue)
		}
	}

	return result
}
