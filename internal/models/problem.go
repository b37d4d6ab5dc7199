package models

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

type Problem struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Difficulty      string     `json:"difficulty"`
	Constraints     string     `json:"constraints,omitempty"`
	TimeLimit       int        `json:"time_limit"`
	MemoryLimit     int        `json:"memory_limit"`
	Tags            []Tag      `json:"tags"`
	Submissions     int        `json:"submissions"`
	Accepted        int        `json:"accepted"`
	SampleTestCases []TestCase `json:"sample_test_cases"`
}

// Language describes one entry of the supported-language catalogue
// loaded once per session by the bootstrap
type Language struct {
	Code        string `json:"code"`
	Language    string `json:"language"`
	MonacoID    string `json:"monaco_id"`
	DefaultCode string `json:"default_code"`
}
