package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type capturedRequest struct {
	Path          string
	Authorization string
	Body          map[string]any
}

func newCompletionServer(t *testing.T, status int, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			raw, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			captured.Path = r.URL.Path
			captured.Authorization = r.Header.Get("Authorization")
			require.NoError(t, json.Unmarshal(raw, &captured.Body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVisionCompletionReturnsFirstChoice(t *testing.T) {
	var captured capturedRequest
	srv := newCompletionServer(t, http.StatusOK, `{"choices":[{"message":{"content":"REPORT"}},{"message":{"content":"other"}}]}`, &captured)

	client := NewOpenAIClient(Options{APIKey: "test-key", BaseURL: srv.URL, Model: "vision-model"})
	text, err := client.VisionCompletion(context.Background(), "describe", "data:image/jpeg;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, "REPORT", text)

	assert.True(t, strings.HasSuffix(captured.Path, "/chat/completions"))
	assert.Equal(t, "Bearer test-key", captured.Authorization)
	assert.Equal(t, "vision-model", captured.Body["model"])
	assert.NotContains(t, captured.Body, "temperature")
	assert.NotContains(t, captured.Body, "max_tokens")

	messages, ok := captured.Body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)

	message := messages[0].(map[string]any)
	assert.Equal(t, "user", message["role"])

	parts, ok := message["content"].([]any)
	require.True(t, ok)
	require.Len(t, parts, 2)

	textPart := parts[0].(map[string]any)
	assert.Equal(t, "text", textPart["type"])
	assert.Equal(t, "describe", textPart["text"])

	imagePart := parts[1].(map[string]any)
	assert.Equal(t, "image_url", imagePart["type"])
	imageURL := imagePart["image_url"].(map[string]any)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", imageURL["url"])
}

func TestVisionCompletionContentUnmodified(t *testing.T) {
	srv := newCompletionServer(t, http.StatusOK, `{"choices":[{"message":{"content":"  **DENTAL ANALYSIS REPORT**\n\n1. odd formatting  "}}]}`, nil)

	client := NewOpenAIClient(Options{APIKey: "k", BaseURL: srv.URL})
	text, err := client.VisionCompletion(context.Background(), "p", "data:image/jpeg;base64,AA")
	require.NoError(t, err)
	assert.Equal(t, "  **DENTAL ANALYSIS REPORT**\n\n1. odd formatting  ", text)
}

func TestVisionCompletionMissingKeySkipsRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := NewOpenAIClient(Options{APIKey: "  ", BaseURL: srv.URL})
	_, err := client.VisionCompletion(context.Background(), "p", "u")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Zero(t, calls.Load())
}

func TestVisionCompletionNoChoices(t *testing.T) {
	srv := newCompletionServer(t, http.StatusOK, `{"choices":[]}`, nil)

	client := NewOpenAIClient(Options{APIKey: "k", BaseURL: srv.URL})
	_, err := client.VisionCompletion(context.Background(), "p", "u")
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestVisionCompletionStatusError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(Options{APIKey: "k", BaseURL: srv.URL})
	_, err := client.VisionCompletion(context.Background(), "p", "u")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "no retries expected")
}

func TestVisionCompletionUnauthorized(t *testing.T) {
	srv := newCompletionServer(t, http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, nil)

	client := NewOpenAIClient(Options{APIKey: "k", BaseURL: srv.URL})
	_, err := client.VisionCompletion(context.Background(), "p", "u")
	assert.Error(t, err)
}

func TestVisionCompletionMalformedBody(t *testing.T) {
	srv := newCompletionServer(t, http.StatusOK, `this is not json`, nil)

	client := NewOpenAIClient(Options{APIKey: "k", BaseURL: srv.URL})
	_, err := client.VisionCompletion(context.Background(), "p", "u")
	assert.Error(t, err)
}

func TestVisionCompletionTransportFailure(t *testing.T) {
	httpClient := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}

	client := NewOpenAIClient(Options{APIKey: "k", HTTPClient: httpClient})
	_, err := client.VisionCompletion(context.Background(), "p", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNewOpenAIClientDefaults(t *testing.T) {
	client := NewOpenAIClient(Options{APIKey: "k"})
	assert.Equal(t, DefaultModel, client.Model())
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
}
