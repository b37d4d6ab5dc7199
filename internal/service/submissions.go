package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/NitinReddy01/codejudge-cli/internal/models"
)

// SubmissionsService sends code to the remote judge through the
// intercepted transport
type SubmissionsService struct {
	api apiClient
}

func NewSubmissions(client *http.Client, baseURL string) *SubmissionsService {
	return &SubmissionsService{api: newAPIClient(client, baseURL)}
}

// Run executes code against the given test cases without recording a
// submission. Used for the try-it-out loop before submitting.
func (s *SubmissionsService) Run(ctx context.Context, sub models.Submission) (models.SubmissionResponse, error) {
	var resp models.SubmissionResponse
	if err := s.api.post(ctx, "/submissions/run", sub, &resp); err != nil {
		return models.SubmissionResponse{}, err
	}

	return resp, nil
}

// Submit evaluates code against the full test set, hidden cases
// included, and records the attempt
func (s *SubmissionsService) Submit(ctx context.Context, sub models.Submission) (models.SubmissionResponse, error) {
	var resp models.SubmissionResponse
	if err := s.api.post(ctx, "/submissions/submit", sub, &resp); err != nil {
		return models.SubmissionResponse{}, err
	}

	return resp, nil
}

// History lists the user's past judged submissions, newest first.
// An empty problemID lists everything.
func (s *SubmissionsService) History(ctx context.Context, problemID string) ([]models.SubmissionRecord, error) {
	query := url.Values{}
	if problemID != "" {
		query.Set("problem_id", problemID)
	}

	var records []models.SubmissionRecord
	if err := s.api.get(ctx, "/submissions", query, &records); err != nil {
		return nil, err
	}

	return records, nil
}
