package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatportal/chatportal-backend/internal/inference"
	"github.com/chatportal/chatportal-backend/internal/repository/memory"
	"github.com/chatportal/chatportal-backend/internal/services"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(ctx context.Context, messages []inference.Message, maxTokens int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestApp(completer inference.Completer) *fiber.App {
	app := fiber.New()
	svc := services.NewServices(memory.NewConversationRepository(), memory.NewMessageRepository(), completer)
	SetupRoutes(app, svc)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestGetConversationNotFound(t *testing.T) {
	app := newTestApp(&stubCompleter{})

	resp, body := doJSON(t, app, http.MethodGet, "/api/conversations/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Conversation not found", body["detail"])
}

func TestSendMessageWhileInferenceUnreachable(t *testing.T) {
	app := newTestApp(&stubCompleter{err: errors.New("connection refused")})

	_, created := doJSON(t, app, http.MethodPost, "/api/conversations", map[string]string{"title": "Test"})
	id := created["id"].(string)

	resp, reply := doJSON(t, app, http.MethodPost, "/api/conversations/"+id+"/messages", map[string]string{"content": "Hello"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "assistant", reply["role"])
	assert.Equal(t, inference.UnavailableMessage, reply["content"])
}

func TestSendMessageToEndedConversation(t *testing.T) {
	app := newTestApp(&stubCompleter{reply: "A summary."})

	_, created := doJSON(t, app, http.MethodPost, "/api/conversations", map[string]string{"title": "Test"})
	id := created["id"].(string)

	resp, ended := doJSON(t, app, http.MethodPost, "/api/conversations/"+id+"/end", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ended", ended["status"])
	assert.Equal(t, "A summary.", ended["summary"])
	assert.NotNil(t, ended["end_time"])

	resp, body := doJSON(t, app, http.MethodPost, "/api/conversations/"+id+"/messages", map[string]string{"content": "Hello?"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Conversation has ended", body["detail"])
}

func TestEndConversationTwice(t *testing.T) {
	app := newTestApp(&stubCompleter{reply: "A summary."})

	_, created := doJSON(t, app, http.MethodPost, "/api/conversations", map[string]string{"title": "Test"})
	id := created["id"].(string)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/conversations/"+id+"/end", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/conversations/"+id+"/end", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Conversation already ended", body["detail"])
}

func TestShareAndViewSharedConversation(t *testing.T) {
	app := newTestApp(&stubCompleter{reply: "Hi there"})

	_, created := doJSON(t, app, http.MethodPost, "/api/conversations", map[string]string{"title": "Test"})
	id := created["id"].(string)
	doJSON(t, app, http.MethodPost, "/api/conversations/"+id+"/messages", map[string]string{"content": "Hello"})

	resp, shared := doJSON(t, app, http.MethodPost, "/api/conversations/"+id+"/share", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := shared["share_token"].(string)
	assert.Equal(t, "/shared/"+token, shared["share_url"])

	// Sharing again returns the same token
	_, again := doJSON(t, app, http.MethodPost, "/api/conversations/"+id+"/share", nil)
	assert.Equal(t, token, again["share_token"])

	resp, view := doJSON(t, app, http.MethodGet, "/api/shared/"+token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	conv := view["conversation"].(map[string]interface{})
	assert.Equal(t, "Test", conv["title"])
	messages := view["messages"].([]interface{})
	assert.Len(t, messages, 2)
}

func TestViewSharedUnknownToken(t *testing.T) {
	app := newTestApp(&stubCompleter{})

	resp, body := doJSON(t, app, http.MethodGet, "/api/shared/no-such-token", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Shared conversation not found", body["detail"])
}

func TestReactionToggleOverHTTP(t *testing.T) {
	app := newTestApp(&stubCompleter{reply: "Hi"})

	_, created := doJSON(t, app, http.MethodPost, "/api/conversations", map[string]string{"title": "Test"})
	id := created["id"].(string)
	_, reply := doJSON(t, app, http.MethodPost, "/api/conversations/"+id+"/messages", map[string]string{"content": "Hello"})
	msgID := reply["id"].(string)

	resp, body := doJSON(t, app, http.MethodPost, "/api/messages/"+msgID+"/react", map[string]string{"reaction": "👍"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []interface{}{"👍"}, body["reactions"])

	_, body = doJSON(t, app, http.MethodPost, "/api/messages/"+msgID+"/react", map[string]string{"reaction": "👍"})
	assert.Equal(t, []interface{}{}, body["reactions"])
}

func TestBookmarkUnknownMessage(t *testing.T) {
	app := newTestApp(&stubCompleter{})

	resp, body := doJSON(t, app, http.MethodPost, "/api/messages/no-such-id/bookmark", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Message not found", body["detail"])
}

func TestExportInvalidFormatOverHTTP(t *testing.T) {
	app := newTestApp(&stubCompleter{})

	_, created := doJSON(t, app, http.MethodPost, "/api/conversations", map[string]string{"title": "Test"})
	id := created["id"].(string)

	resp, body := doJSON(t, app, http.MethodPost, "/api/conversations/"+id+"/export", map[string]string{"format": "docx"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid export format", body["detail"])
}

func TestExportPDFOverHTTP(t *testing.T) {
	app := newTestApp(&stubCompleter{reply: "Hi"})

	_, created := doJSON(t, app, http.MethodPost, "/api/conversations", map[string]string{"title": "Test"})
	id := created["id"].(string)
	doJSON(t, app, http.MethodPost, "/api/conversations/"+id+"/messages", map[string]string{"content": "Hello"})

	encoded, err := json.Marshal(map[string]string{"format": "pdf"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/conversations/"+id+"/export", bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Test.pdf")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestListConversations(t *testing.T) {
	app := newTestApp(&stubCompleter{})

	doJSON(t, app, http.MethodPost, "/api/conversations", map[string]string{"title": "First"})
	doJSON(t, app, http.MethodPost, "/api/conversations", map[string]string{"title": "Second"})

	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var conversations []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&conversations))
	assert.Len(t, conversations, 2)
}

func TestQueryEndpoint(t *testing.T) {
	app := newTestApp(&stubCompleter{reply: "Mostly Go."})

	_, created := doJSON(t, app, http.MethodPost, "/api/conversations", map[string]string{"title": "Go talk"})
	id := created["id"].(string)
	doJSON(t, app, http.MethodPost, "/api/conversations/"+id+"/end", nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/conversations/query", map[string]string{"query": "What did we discuss?"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Mostly Go.", body["answer"])
	relevant := body["relevant_conversations"].([]interface{})
	assert.Len(t, relevant, 1)
}
