package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/plateful/plateful/internal/domain/entity"
	"github.com/plateful/plateful/internal/domain/repository"
	"github.com/plateful/plateful/pkg/helpers"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeService is marketplace glue: persistence through the recipe
// repository, images in GCS, search in Elasticsearch.
type RecipeService struct {
	Repo    repository.RecipeRepository
	GCS     *storage.Client
	Bucket  string
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

func NewRecipeService(repo repository.RecipeRepository, gcs *storage.Client, bucket string, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *RecipeService {
	return &RecipeService{Repo: repo, GCS: gcs, Bucket: bucket, ES: es, ESIndex: esIndex, Logger: logger}
}

func (s *RecipeService) Create(ctx context.Context, rec *entity.Recipe) error {
	if err := s.Repo.Create(ctx, rec); err != nil {
		return err
	}
	_ = s.indexRecipe(ctx, rec)
	return nil
}

func (s *RecipeService) Get(ctx context.Context, id string) (*entity.Recipe, error) {
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *RecipeService) List(ctx context.Context, limit, offset int) ([]*entity.Recipe, error) {
	return s.Repo.List(ctx, limit, offset)
}

// UploadImage stores a recipe image in GCS and returns its public URL.
func (s *RecipeService) UploadImage(ctx context.Context, authorID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.Bucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("recipes", authorID, id+ext))
	return helpers.UploadObject(ctx, s.GCS, s.Bucket, objectPath, contentType, r)
}

func (s *RecipeService) indexRecipe(ctx context.Context, rec *entity.Recipe) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":          rec.ID,
		"title":       rec.Title,
		"description": rec.Description,
		"location":    rec.Location,
		"price":       rec.Price,
		"author_id":   rec.AuthorID,
		"created_at":  rec.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: rec.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("recipe_id", rec.ID).Warn("es index failed")
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("recipe_id", rec.ID).Warn("es index response error")
	}
	return nil
}

// Search performs a multi_match query over title, description, and location.
func (s *RecipeService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description", "location"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
