// Package testutil provides an in-process fake of the platform backend
// for tests: JWT access tokens, rotating refresh-token cookies, and
// stub problem/language/judge endpoints. Nothing here ships in the
// client binary.
package testutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/NitinReddy01/codejudge-cli/internal/models"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/auth"
)

type seededUser struct {
	models.User
	password string
}

type refreshRecord struct {
	userID  string
	used    bool
	revoked bool
}

// Backend is an httptest server speaking the platform API contract.
//
// Refresh tokens rotate on use: consuming a refresh cookie invalidates
// it and sets a fresh one. That matches the backend's behavior and is
// exactly what makes duplicate refresh calls observable as failures.
type Backend struct {
	t      *testing.T
	Server *httptest.Server
	secret []byte

	// AccessTTL is the lifetime of minted access tokens
	AccessTTL time.Duration

	mu          sync.Mutex
	users       map[string]*seededUser // keyed by email
	refresh     map[string]*refreshRecord
	submissions map[string][]models.SubmissionRecord // keyed by user ID

	refreshCalls atomic.Int32
	refreshDown  atomic.Bool
	refreshDelay atomic.Int64
}

func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		t:           t,
		secret:      []byte("test-secret-key"),
		AccessTTL:   15 * time.Minute,
		users:       make(map[string]*seededUser),
		refresh:     make(map[string]*refreshRecord),
		submissions: make(map[string][]models.SubmissionRecord),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", b.handleRegister)
	mux.HandleFunc("POST /api/auth/login", b.handleLogin)
	mux.HandleFunc("POST /api/auth/refresh", b.handleRefresh)
	mux.HandleFunc("POST /api/auth/logout", b.handleLogout)
	mux.HandleFunc("GET /api/auth/me", b.handleMe)
	mux.HandleFunc("GET /api/problems", b.requireAuth(b.handleProblems))
	mux.HandleFunc("GET /api/problems/{id}", b.requireAuth(b.handleProblem))
	mux.HandleFunc("GET /api/languages", b.requireAuth(b.handleLanguages))
	mux.HandleFunc("POST /api/submissions/run", b.requireAuth(b.handleExecute))
	mux.HandleFunc("POST /api/submissions/submit", b.requireAuth(b.handleSubmit))
	mux.HandleFunc("GET /api/submissions", b.requireAuth(b.handleHistory))

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Server.Close)

	return b
}

// URL is the API base, ready to hand to gateway/service configs
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

// SeedUser registers an account without going through the HTTP surface
func (b *Backend) SeedUser(name string, email string, password string) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()

	user := models.User{ID: uuid.NewString(), Email: email, Name: name}
	b.users[email] = &seededUser{User: user, password: password}
	return user
}

// MintAccessToken signs an access token for the user. A non-positive
// ttl produces an already-expired token, handy for forcing the refresh
// path.
func (b *Backend) MintAccessToken(userID string, ttl time.Duration) string {
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		b.t.Fatalf("failed to sign access token: %v", err)
	}
	return token
}

// RefreshCalls reports how many refresh round trips the backend served
func (b *Backend) RefreshCalls() int32 {
	return b.refreshCalls.Load()
}

// SetRefreshDown makes every refresh call fail with 401, simulating a
// revoked or expired cookie
func (b *Backend) SetRefreshDown(down bool) {
	b.refreshDown.Store(down)
}

// SetRefreshDelay makes every refresh call take at least d, widening
// the window in which concurrent callers should coalesce
func (b *Backend) SetRefreshDelay(d time.Duration) {
	b.refreshDelay.Store(int64(d))
}

// RevokeRefreshTokens invalidates every outstanding refresh token, as a
// server-side "log out everywhere" would
func (b *Backend) RevokeRefreshTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, rec := range b.refresh {
		rec.revoked = true
	}
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Name and email are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	b.mu.Lock()
	if _, exists := b.users[req.Email]; exists {
		b.mu.Unlock()
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	user := models.User{ID: uuid.NewString(), Email: req.Email, Name: req.Name}
	b.users[req.Email] = &seededUser{User: user, password: req.Password}
	b.mu.Unlock()

	b.issueSession(w, user, http.StatusCreated)
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	account, ok := b.users[req.Email]
	b.mu.Unlock()
	if !ok || account.password != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	b.issueSession(w, account.User, http.StatusOK)
}

func (b *Backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)

	if delay := b.refreshDelay.Load(); delay > 0 {
		time.Sleep(time.Duration(delay))
	}

	if b.refreshDown.Load() {
		writeError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	b.mu.Lock()
	rec, ok := b.refresh[cookie.Value]
	if !ok || rec.used || rec.revoked {
		b.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}
	// rotation: the presented token is spent, a fresh one goes out
	rec.used = true
	next := uuid.NewString()
	b.refresh[next] = &refreshRecord{userID: rec.userID}
	b.mu.Unlock()

	setRefreshCookie(w, next)
	writeJSON(w, http.StatusOK, models.RefreshResponse{
		AccessToken: b.MintAccessToken(rec.userID, b.AccessTTL),
	})
}

func (b *Backend) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		b.mu.Lock()
		if rec, ok := b.refresh[cookie.Value]; ok {
			rec.revoked = true
		}
		b.mu.Unlock()
	}

	clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (b *Backend) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := b.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]models.User{"user": user})
}

func (b *Backend) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := b.authenticate(r); err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next(w, r)
	}
}

func (b *Backend) authenticate(r *http.Request) (models.User, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return models.User{}, errors.New("missing bearer token")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return b.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return models.User{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, account := range b.users {
		if account.ID == claims.Subject {
			return account.User, nil
		}
	}
	return models.User{}, errors.New("unknown user")
}

func (b *Backend) issueSession(w http.ResponseWriter, user models.User, status int) {
	refresh := uuid.NewString()
	b.mu.Lock()
	b.refresh[refresh] = &refreshRecord{userID: user.ID}
	b.mu.Unlock()

	setRefreshCookie(w, refresh)
	writeJSON(w, status, models.AuthResponse{
		User:        user,
		AccessToken: b.MintAccessToken(user.ID, b.AccessTTL),
	})
}

func (b *Backend) handleProblems(w http.ResponseWriter, r *http.Request) {
	problems := fixtureProblems()

	difficulty := r.URL.Query().Get("difficulty")
	filtered := problems[:0:0]
	for _, p := range problems {
		if difficulty == "" || p.Difficulty == difficulty {
			filtered = append(filtered, p)
		}
	}

	writeJSON(w, http.StatusOK, filtered)
}

func (b *Backend) handleProblem(w http.ResponseWriter, r *http.Request) {
	for _, p := range fixtureProblems() {
		if p.ID == r.PathValue("id") {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Problem not found")
}

func (b *Backend) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fixtureLanguages())
}

// handleExecute fakes the judge: every test case passes with the
// expected output echoed back
func (b *Backend) handleExecute(w http.ResponseWriter, r *http.Request) {
	var sub models.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, b.judge(sub))
}

// handleSubmit judges and records the attempt in the user's history
func (b *Backend) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, err := b.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	var sub models.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp := b.judge(sub)

	status := "accepted"
	if resp.FailedTests > 0 {
		status = "rejected"
	}
	record := models.SubmissionRecord{
		ID:          uuid.NewString(),
		ProblemID:   sub.ProblemID,
		Language:    sub.Language,
		Status:      status,
		PassedTests: resp.PassedTests,
		TotalTests:  resp.TotalTests,
		CreatedAt:   time.Now(),
	}

	b.mu.Lock()
	b.submissions[user.ID] = append([]models.SubmissionRecord{record}, b.submissions[user.ID]...)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) handleHistory(w http.ResponseWriter, r *http.Request) {
	user, err := b.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	problemID := r.URL.Query().Get("problem_id")

	b.mu.Lock()
	records := make([]models.SubmissionRecord, 0, len(b.submissions[user.ID]))
	for _, rec := range b.submissions[user.ID] {
		if problemID == "" || rec.ProblemID == problemID {
			records = append(records, rec)
		}
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, records)
}

func (b *Backend) judge(sub models.Submission) models.SubmissionResponse {
	results := make([]models.ExecutionResult, len(sub.TestCases))
	for i, tc := range sub.TestCases {
		results[i] = models.ExecutionResult{
			TestCaseIndex:  i,
			Passed:         true,
			Input:          tc.Input,
			Output:         tc.ExpectedOutput,
			ExpectedOutput: tc.ExpectedOutput,
			ExecutionTime:  1,
		}
	}

	return models.SubmissionResponse{
		Results:     results,
		TotalTests:  len(results),
		PassedTests: len(results),
		TotalTime:   len(results),
	}
}

func setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func fixtureProblems() []models.Problem {
	return []models.Problem{
		{
			ID:          "1",
			Title:       "Two Sum",
			Description: "Given an array of integers, return indices of the two numbers that add up to the target.",
			Difficulty:  "easy",
			TimeLimit:   2000,
			MemoryLimit: 128,
			Tags:        []models.Tag{{ID: "array", Name: "Array"}},
			SampleTestCases: []models.TestCase{
				{Input: "2 7 11 15\n9", ExpectedOutput: "0 1"},
			},
		},
		{
			ID:          "2",
			Title:       "Longest Substring Without Repeating Characters",
			Description: "Find the length of the longest substring without repeating characters.",
			Difficulty:  "medium",
			TimeLimit:   2000,
			MemoryLimit: 128,
			Tags:        []models.Tag{{ID: "string", Name: "String"}},
			SampleTestCases: []models.TestCase{
				{Input: "abcabcbb", ExpectedOutput: "3"},
			},
		},
	}
}

func fixtureLanguages() []models.Language {
	return []models.Language{
		{Code: "python", Language: "Python 3.11", MonacoID: "python", DefaultCode: "def solution():\n    pass\n"},
		{Code: "java", Language: "Java 17", MonacoID: "java", DefaultCode: "public class Solution {}\n"},
		{Code: "cpp", Language: "C++17", MonacoID: "cpp", DefaultCode: "int main() { return 0; }\n"},
	}
}
