// Package weaviate adapts a Weaviate instance to the vector index operations
// of the answering pipeline.
package weaviate

import (
	"context"
	"errors"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"askdoc/internal/ingest"
	"askdoc/internal/retrieval"
)

const className = "DocumentChunk"

type Store struct {
	client *weaviate.Client
}

func NewStore(client *weaviate.Client) *Store {
	return &Store{client: client}
}

// Ready probes the readiness endpoint of the Weaviate instance.
func (s *Store) Ready(ctx context.Context) error {
	ok, err := s.client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("weaviate reports not ready")
	}
	return nil
}

// Exists reports whether any chunk of the given source URL is indexed.
func (s *Store) Exists(ctx context.Context, sourceURL string) (bool, error) {
	where := filters.Where().
		WithPath([]string{"sourceUrl"}).
		WithOperator(filters.Equal).
		WithValueString(sourceURL)

	res, err := s.client.GraphQL().Get().
		WithClassName(className).
		WithWhere(where).
		WithLimit(1).
		WithFields(graphql.Field{Name: "sourceUrl"}).
		Do(ctx)
	if err != nil {
		return false, err
	}
	if len(res.Errors) > 0 {
		return false, fmt.Errorf("graphql error: %v", res.Errors)
	}

	if data, ok := res.Data["Get"].(map[string]interface{}); ok {
		if chunks, ok := data[className].([]interface{}); ok {
			return len(chunks) > 0, nil
		}
	}
	return false, nil
}

// StoreBatch writes all chunks in a single batch call.
func (s *Store) StoreBatch(ctx context.Context, chunks []ingest.Chunk) error {
	objects := make([]*models.Object, len(chunks))
	for i, chunk := range chunks {
		objects[i] = &models.Object{
			Class: className,
			Properties: map[string]interface{}{
				"text":           chunk.Text,
				"sourceDocument": chunk.SourceDocument,
				"sourceUrl":      chunk.SourceURL,
			},
			Vector: models.C11yVector(chunk.Vector),
		}
	}

	res, err := s.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return err
	}
	for _, obj := range res {
		if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
			return fmt.Errorf("batch insert: %s", obj.Result.Errors.Error[0].Message)
		}
	}
	return nil
}

// Search returns the limit chunks nearest to the vector.
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]retrieval.Result, error) {
	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	fields := []graphql.Field{
		{Name: "text"},
		{Name: "sourceDocument"},
		{Name: "sourceUrl"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
	}

	res, err := s.client.GraphQL().Get().
		WithClassName(className).
		WithNearVector(nearVector).
		WithLimit(limit).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %v", res.Errors)
	}

	var results []retrieval.Result
	if data, ok := res.Data["Get"].(map[string]interface{}); ok {
		if chunks, ok := data[className].([]interface{}); ok {
			for _, c := range chunks {
				props, ok := c.(map[string]interface{})
				if !ok {
					continue
				}

				var result retrieval.Result
				if text, ok := props["text"].(string); ok {
					result.Text = text
				}
				if doc, ok := props["sourceDocument"].(string); ok {
					result.SourceDocument = doc
				}
				if url, ok := props["sourceUrl"].(string); ok {
					result.SourceURL = url
				}
				if additional, ok := props["_additional"].(map[string]interface{}); ok {
					// Certainty is a JSON number, but some server versions
					// send _additional values as strings.
					switch v := additional["certainty"].(type) {
					case float64:
						result.Score = float32(v)
					case string:
						var f float64
						fmt.Sscanf(v, "%f", &f)
						result.Score = float32(f)
					}
				}

				results = append(results, result)
			}
		}
	}
	return results, nil
}

// CountChunks returns the total number of indexed chunks.
func (s *Store) CountChunks(ctx context.Context) (int, error) {
	res, err := s.client.GraphQL().Aggregate().
		WithClassName(className).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, err
	}
	if len(res.Errors) > 0 {
		return 0, fmt.Errorf("graphql error: %v", res.Errors)
	}

	if data, ok := res.Data["Aggregate"].(map[string]interface{}); ok {
		if rows, ok := data[className].([]interface{}); ok && len(rows) > 0 {
			if row, ok := rows[0].(map[string]interface{}); ok {
				if meta, ok := row["meta"].(map[string]interface{}); ok {
					if count, ok := meta["count"].(float64); ok {
						return int(count), nil
					}
				}
			}
		}
	}
	return 0, nil
}

// Schema operations, consumed by vector.EnsureSchema at dial time.

func (s *Store) ClassExists(ctx context.Context, class string) (bool, error) {
	return s.client.Schema().ClassExistenceChecker().WithClassName(class).Do(ctx)
}

func (s *Store) CreateClass(ctx context.Context, class *models.Class) error {
	return s.client.Schema().ClassCreator().WithClass(class).Do(ctx)
}

func (s *Store) GetClass(ctx context.Context, class string) (*models.Class, error) {
	return s.client.Schema().ClassGetter().WithClassName(class).Do(ctx)
}

func (s *Store) AddProperty(ctx context.Context, class string, property *models.Property) error {
	return s.client.Schema().PropertyCreator().WithClassName(class).WithProperty(property).Do(ctx)
}
