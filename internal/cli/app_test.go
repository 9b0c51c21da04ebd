package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/elevate/internal/ai"
	"github.com/example/elevate/internal/api"
	"github.com/example/elevate/internal/session"
	"github.com/example/elevate/pkg/models"
)

// memoryStorage is an in-memory token store shared by the session and the
// API client in tests
type memoryStorage struct {
	token string
}

func (m *memoryStorage) Token() (string, error)   { return m.token, nil }
func (m *memoryStorage) SaveToken(t string) error { m.token = t; return nil }
func (m *memoryStorage) DeleteToken() error       { m.token = ""; return nil }

func signedToken(t *testing.T, claims map[string]string) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("failed to marshal claims: %v", err)
	}
	return "head." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

// fakeElevateServer serves just enough of the backend API for the CLI tests
func fakeElevateServer(t *testing.T, loginToken string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.LoginResponse{
			Token: loginToken,
			User:  &models.User{Email: "alex@elevate.app", Name: "Alex"},
		})
	})
	mux.HandleFunc("/api/folders", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Folder{{ID: 1, Name: "Biology"}})
	})
	mux.HandleFunc("/api/questionsets/9", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.QuestionSet{ID: 9, FolderID: 1, Name: "Cells"})
	})
	mux.HandleFunc("/api/questionsets/9/questions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Question{
			{ID: 1, QuestionSetID: 9, Text: "What is osmosis?", Answer: "Diffusion of water"},
		})
	})
	mux.HandleFunc("/api/ai/evaluate-answer", func(w http.ResponseWriter, r *http.Request) {
		score := 90.0
		stage := 1
		json.NewEncoder(w).Encode(models.Evaluation{
			IsCorrect:        true,
			ScoreAchieved:    &score,
			Feedback:         "Nice.",
			NewLearningStage: &stage,
		})
	})
	mux.HandleFunc("/api/reviews", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	return httptest.NewServer(mux)
}

func newTestApp(t *testing.T, server *httptest.Server, storage *memoryStorage, script string) (*App, *bytes.Buffer) {
	t.Helper()
	sessions := session.New(storage)
	sessions.Initialize()

	backend := api.New(server.URL, storage)
	assistant := ai.New(server.URL, storage)

	out := &bytes.Buffer{}
	app := New(DefaultConfig(), sessions, backend, assistant, nil, nil, nil,
		strings.NewReader(script), out)
	return app, out
}

func TestProtectedCommandRedirectsThenReplaysAfterLogin(t *testing.T) {
	token := signedToken(t, map[string]string{"email": "alex@elevate.app", "name": "Alex"})
	server := fakeElevateServer(t, token)
	defer server.Close()

	script := "folders\nlogin alex@elevate.app secret\nquit\n"
	app, out := newTestApp(t, server, &memoryStorage{}, script)

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "Please sign in first") {
		t.Errorf("output missing login redirect:\n%s", output)
	}
	if !strings.Contains(output, "Welcome back, Alex!") {
		t.Errorf("output missing login greeting:\n%s", output)
	}
	// The folders command must replay after the successful login
	if !strings.Contains(output, "[1] Biology") {
		t.Errorf("output missing replayed folders listing:\n%s", output)
	}
}

func TestScriptedReviewSession(t *testing.T) {
	token := signedToken(t, map[string]string{"email": "alex@elevate.app", "name": "Alex"})
	server := fakeElevateServer(t, token)
	defer server.Close()

	storage := &memoryStorage{token: token} // already signed in from a prior run
	script := "review 9\nWater diffusion across a membrane\nquit\n"
	app, out := newTestApp(t, server, storage, script)

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "Question 1 of 1") {
		t.Errorf("output missing question:\n%s", output)
	}
	if !strings.Contains(output, "Correct - score 90. Nice.") {
		t.Errorf("output missing evaluation:\n%s", output)
	}
	if !strings.Contains(output, "Session complete") {
		t.Errorf("output missing summary:\n%s", output)
	}
	if !strings.Contains(output, "Average score:      90") {
		t.Errorf("output missing average score:\n%s", output)
	}
}

func TestAbandonedSessionSubmitsNothing(t *testing.T) {
	token := signedToken(t, map[string]string{"email": "alex@elevate.app"})
	submitted := false

	mux := http.NewServeMux()
	mux.HandleFunc("/api/questionsets/9", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.QuestionSet{ID: 9, Name: "Cells"})
	})
	mux.HandleFunc("/api/questionsets/9/questions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Question{
			{ID: 1, QuestionSetID: 9, Text: "What is osmosis?", Answer: "Diffusion of water"},
		})
	})
	mux.HandleFunc("/api/reviews", func(w http.ResponseWriter, r *http.Request) {
		submitted = true
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	script := "review 9\n/quit\nquit\n"
	app, out := newTestApp(t, server, &memoryStorage{token: token}, script)

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if submitted {
		t.Error("abandoned session submitted outcomes")
	}
	if !strings.Contains(out.String(), "Session abandoned") {
		t.Errorf("output missing abandon notice:\n%s", out.String())
	}
}

// Cancellation must interrupt Run even while it is blocked waiting for the
// next input line.
func TestRunReturnsWhenContextCancelled(t *testing.T) {
	token := signedToken(t, map[string]string{"email": "alex@elevate.app"})
	server := fakeElevateServer(t, token)
	defer server.Close()

	reader, writer := io.Pipe()
	defer writer.Close()

	sessions := session.New(&memoryStorage{})
	sessions.Initialize()
	backend := api.New(server.URL, &memoryStorage{})
	assistant := ai.New(server.URL, &memoryStorage{})
	app := New(DefaultConfig(), sessions, backend, assistant, nil, nil, nil,
		reader, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
