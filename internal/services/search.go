package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"hragent/hiring-pipeline/internal/models"
)

// SimilarCandidate is one hit from a vector search over indexed resumes.
type SimilarCandidate struct {
	CandidateID uint
	Name        string
	Score       float32
}

// CandidateSearchService indexes resume text into a vector store so HR can
// find candidates similar to a free-text query or to another candidate.
// Indexing is best-effort: intake never fails because the vector store is
// down.
type CandidateSearchService interface {
	InitCollection() error
	IndexCandidate(ctx context.Context, candidate *models.Candidate, resumeText string) error
	FindSimilar(ctx context.Context, query string, limit int) ([]SimilarCandidate, error)
	RemoveCandidates(ctx context.Context, candidateIDs []uint) error
}

type candidateSearchService struct {
	client         *qdrant.Client
	embedder       EmbeddingProvider
	collectionName string
	vectorSize     uint64
}

func NewCandidateSearchService(urlStr, apiKey, collectionName string, embedder EmbeddingProvider) (CandidateSearchService, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
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

	return &candidateSearchService{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements CandidateSearchService.
func (s *candidateSearchService) InitCollection() error {
	ctx := context.Background()

	exists, err := s.client.CollectionExists(ctx, s.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Qdrant collection already exists")
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", s.collectionName)
	return nil
}

// IndexCandidate implements CandidateSearchService. One point per candidate,
// keyed by the candidate id so re-indexing overwrites instead of duplicating.
func (s *candidateSearchService) IndexCandidate(ctx context.Context, candidate *models.Candidate, resumeText string) error {
	embedding, err := s.embedder.Embed(ctx, resumeText)
	if err != nil {
		return fmt.Errorf("failed to embed resume: %w", err)
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(candidate.ID)),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"candidate_id": int64(candidate.ID),
			"name":         candidate.FullName(),
		}),
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// FindSimilar implements CandidateSearchService.
func (s *candidateSearchService) FindSimilar(ctx context.Context, query string, limit int) ([]SimilarCandidate, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var results []SimilarCandidate
	for _, point := range points {
		result := SimilarCandidate{Score: point.Score}

		if id, ok := point.Payload["candidate_id"]; ok {
			if val, ok := id.GetKind().(*qdrant.Value_IntegerValue); ok {
				result.CandidateID = uint(val.IntegerValue)
			}
		}
		if name, ok := point.Payload["name"]; ok {
			if val, ok := name.GetKind().(*qdrant.Value_StringValue); ok {
				result.Name = val.StringValue
			}
		}

		results = append(results, result)
	}

	return results, nil
}

// RemoveCandidates implements CandidateSearchService. Called after candidates
// are deleted so the index does not serve dangling ids.
func (s *candidateSearchService) RemoveCandidates(ctx context.Context, candidateIDs []uint) error {
	if len(candidateIDs) == 0 {
		return nil
	}

	ids := make([]*qdrant.PointId, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		ids = append(ids, qdrant.NewIDNum(uint64(id)))
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collectionName,
		Points:         qdrant.NewPointsSelector(ids...),
	})
	if err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}

	return nil
}
