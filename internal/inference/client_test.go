package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatportal/chatportal-backend/internal/config"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens int `json:"max_tokens"`
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	var captured capturedRequest
	var path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hello there"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(config.InferenceConfig{
		BaseURL:        srv.URL,
		Model:          "test-model",
		TimeoutSeconds: 5,
	})

	text, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "Be brief."},
		{Role: "user", Content: "Hi"},
	}, 500)
	require.NoError(t, err)

	assert.Equal(t, "Hello there", text)
	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, "test-model", captured.Model)
	assert.Equal(t, 500, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "Hi", captured.Messages[1].Content)
}

func TestCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"model not loaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	client := NewClient(config.InferenceConfig{BaseURL: srv.URL, Model: "test-model"})

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "Hi"}}, 100)
	assert.Error(t, err)
}

func TestCompleteConnectionRefused(t *testing.T) {
	// Grab a port nothing listens on
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	client := NewClient(config.InferenceConfig{BaseURL: base, Model: "test-model", TimeoutSeconds: 1})

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "Hi"}}, 100)
	assert.Error(t, err)
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(config.InferenceConfig{BaseURL: srv.URL, Model: "test-model"})

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "Hi"}}, 100)
	assert.Error(t, err)
}
