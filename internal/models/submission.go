package models

import "time"

type Submission struct {
	ProblemID   string     `json:"problem_id,omitempty"`
	Code        string     `json:"code"`
	Language    string     `json:"language"`
	TestCases   []TestCase `json:"test_cases"`
	TimeLimit   int        `json:"time_limit"`
	MemoryLimit int        `json:"memory_limit"`
}

// SubmissionRecord is one entry of the submission history
type SubmissionRecord struct {
	ID          string    `json:"id"`
	ProblemID   string    `json:"problem_id"`
	Language    string    `json:"language"`
	Status      string    `json:"status"`
	PassedTests int       `json:"passed_tests"`
	TotalTests  int       `json:"total_tests"`
	CreatedAt   time.Time `json:"created_at"`
}

type ExecutionResult struct {
	TestCaseIndex  int    `json:"test_case_index"`
	Passed         bool   `json:"passed"`
	Input          string `json:"input"`
	Output         string `json:"output"`
	ExpectedOutput string `json:"expected_output"`
	Error          string `json:"error,omitempty"`
	ExecutionTime  int    `json:"execution_time,omitempty"`
	IsTimeout      bool   `json:"is_timeout,omitempty"`
}

// SubmissionResponse aggregates per-test results with summary statistics
type SubmissionResponse struct {
	Results     []ExecutionResult `json:"results"`
	TotalTests  int               `json:"total_tests"`
	PassedTests int               `json:"passed_tests"`
	FailedTests int               `json:"failed_tests"`
	TotalTime   int               `json:"total_time"`
}
