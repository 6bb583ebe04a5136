package services

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportJSONRoundTrip(t *testing.T) {
	svc := newTestServices(&stubCompleter{reply: "Hi"})

	conv, err := svc.Chat.CreateConversation(context.Background(), "Test")
	require.NoError(t, err)
	_, err = svc.Chat.SendMessage(context.Background(), conv.ID, "Hello")
	require.NoError(t, err)

	result, err := svc.Export.Export(context.Background(), conv.ID, FormatJSON)
	require.NoError(t, err)
	require.NotNil(t, result.Document)

	encoded, err := json.Marshal(result.Document)
	require.NoError(t, err)

	var decoded SharedConversation
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, conv.ID, decoded.Conversation.ID)
	assert.Equal(t, "Test", decoded.Conversation.Title)
	assert.Len(t, decoded.Messages, 2)
}

func TestExportMarkdown(t *testing.T) {
	svc := newTestServices(&stubCompleter{reply: "Hi there"})

	conv, err := svc.Chat.CreateConversation(context.Background(), "Go questions")
	require.NoError(t, err)
	msg, err := svc.Chat.SendMessage(context.Background(), conv.ID, "Hello")
	require.NoError(t, err)

	_, err = svc.Chat.ReactToMessage(context.Background(), msg.ID, "👍")
	require.NoError(t, err)
	_, err = svc.Chat.BookmarkMessage(context.Background(), msg.ID)
	require.NoError(t, err)

	result, err := svc.Export.Export(context.Background(), conv.ID, FormatMarkdown)
	require.NoError(t, err)

	md := result.Markdown
	assert.Contains(t, md, "# Go questions")
	assert.Contains(t, md, "**Started:**")
	assert.Contains(t, md, "### 👤 User")
	assert.Contains(t, md, "### 🤖 Assistant")
	assert.Contains(t, md, "Hi there")
	assert.Contains(t, md, "🔖 *Bookmarked*")
	assert.Contains(t, md, "Reactions: 👍")
}

func TestExportMarkdownIncludesSummary(t *testing.T) {
	svc := newTestServices(&stubCompleter{reply: "A short summary."})

	conv, err := svc.Chat.CreateConversation(context.Background(), "Test")
	require.NoError(t, err)
	_, err = svc.Chat.EndConversation(context.Background(), conv.ID)
	require.NoError(t, err)

	result, err := svc.Export.Export(context.Background(), conv.ID, FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, result.Markdown, "**Summary:** A short summary.")
	assert.Contains(t, result.Markdown, "**Ended:**")
}

func TestExportPDF(t *testing.T) {
	svc := newTestServices(&stubCompleter{reply: "Hi"})

	conv, err := svc.Chat.CreateConversation(context.Background(), "Test")
	require.NoError(t, err)
	_, err = svc.Chat.SendMessage(context.Background(), conv.ID, "Hello")
	require.NoError(t, err)

	result, err := svc.Export.Export(context.Background(), conv.ID, FormatPDF)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(result.PDF, []byte("%PDF")))
	assert.Equal(t, "Test.pdf", result.Filename)
}

func TestExportInvalidFormat(t *testing.T) {
	svc := newTestServices(&stubCompleter{})

	conv, err := svc.Chat.CreateConversation(context.Background(), "Test")
	require.NoError(t, err)

	_, err = svc.Export.Export(context.Background(), conv.ID, "xml")
	assert.ErrorIs(t, err, ErrInvalidExportFormat)
}

func TestExportUnknownConversation(t *testing.T) {
	svc := newTestServices(&stubCompleter{})

	_, err := svc.Export.Export(context.Background(), "missing", FormatJSON)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}
