package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantService keeps a vector index of candidate CV profiles used for
// assignment matching.
type QdrantService interface {
	InitCollection() error
	UpsertCandidate(ctx context.Context, candidateID string, skills []string, text string, embedding []float32) error
	SearchCandidates(ctx context.Context, queryEmbedding []float32, limit int) ([]CandidateHit, error)
	DeleteCandidate(ctx context.Context, candidateID string) error
}

type CandidateHit struct {
	CandidateID string
	Score       float32
	Skills      []string
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(urlStr, apiKey, collectionName string) (QdrantService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, not the REST one
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

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements QdrantService.
func (q *qdrantService) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
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

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// UpsertCandidate implements QdrantService.
func (q *qdrantService) UpsertCandidate(ctx context.Context, candidateID string, skills []string, text string, embedding []float32) error {
	skillValues := make([]interface{}, len(skills))
	for i, skill := range skills {
		skillValues[i] = skill
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(uuid.New().ID())),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"candidate_id": candidateID,
			"skills":       skillValues,
			"text":         text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert candidate profile: %w", err)
	}

	return nil
}

// SearchCandidates implements QdrantService.
func (q *qdrantService) SearchCandidates(ctx context.Context, queryEmbedding []float32, limit int) ([]CandidateHit, error) {
	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}

	var hits []CandidateHit
	for _, point := range searchResult {
		hit := CandidateHit{Score: point.Score}

		payload := point.Payload
		if id, ok := payload["candidate_id"]; ok {
			if val, ok := id.GetKind().(*qdrant.Value_StringValue); ok {
				hit.CandidateID = val.StringValue
			}
		}
		if skills, ok := payload["skills"]; ok {
			if list, ok := skills.GetKind().(*qdrant.Value_ListValue); ok {
				for _, v := range list.ListValue.Values {
					if sv, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
						hit.Skills = append(hit.Skills, sv.StringValue)
					}
				}
			}
		}

		hits = append(hits, hit)
	}

	return hits, nil
}

// DeleteCandidate implements QdrantService.
func (q *qdrantService) DeleteCandidate(ctx context.Context, candidateID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("candidate_id", candidateID),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete candidate profile: %w", err)
	}

	return nil
}
