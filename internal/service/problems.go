package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/NitinReddy01/codejudge-cli/internal/models"
)

// ProblemFilters narrows a problem listing. Zero value lists everything
type ProblemFilters struct {
	Difficulty string
	Tags       []string
	Search     string
}

// ProblemsService reads the problem catalogue through the intercepted
// transport
type ProblemsService struct {
	api apiClient
}

func NewProblems(client *http.Client, baseURL string) *ProblemsService {
	return &ProblemsService{api: newAPIClient(client, baseURL)}
}

func (s *ProblemsService) List(ctx context.Context, filters ProblemFilters) ([]models.Problem, error) {
	query := url.Values{}
	if filters.Difficulty != "" {
		query.Set("difficulty", filters.Difficulty)
	}
	if len(filters.Tags) > 0 {
		query.Set("tags", strings.Join(filters.Tags, ","))
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}

	var problems []models.Problem
	if err := s.api.get(ctx, "/problems", query, &problems); err != nil {
		return nil, err
	}

	return problems, nil
}

func (s *ProblemsService) Get(ctx context.Context, id string) (models.Problem, error) {
	var problem models.Problem
	if err := s.api.get(ctx, "/problems/"+url.PathEscape(id), nil, &problem); err != nil {
		return models.Problem{}, err
	}

	return problem, nil
}

// Languages fetches the supported-language catalogue. The bootstrap
// calls this once per session; anything else should read the bootstrap's
// cached copy.
func (s *ProblemsService) Languages(ctx context.Context) ([]models.Language, error) {
	var languages []models.Language
	if err := s.api.get(ctx, "/languages", nil, &languages); err != nil {
		return nil, err
	}

	return languages, nil
}
