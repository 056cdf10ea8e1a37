package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PharmaDigest/internal/config"
)

func TestOpenAISummarizerSummarize(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4", req.Model)
		assert.Equal(t, 400, req.MaxTokens)
		if assert.Len(t, req.Messages, 1) {
			content := req.Messages[0].Content
			assert.Contains(t, content, "Lilly raises funds")
			assert.Contains(t, content, strings.Repeat("가", 10))
			assert.NotContains(t, content, strings.Repeat("가", 11))
		}

		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Model: "gpt-4",
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: "\n▷ Lilly (#자금조달)\n• 신규 투자 유치\n#투자\n",
				},
			}},
		})
	}))
	defer server.Close()

	s, err := NewOpenAISummarizer(config.OpenAIConfig{
		APIKey:       "test-key",
		BaseURL:      server.URL,
		Model:        "gpt-4",
		Temperature:  0.4,
		MaxTokens:    400,
		MaxBodyRunes: 10,
	})
	require.NoError(t, err)

	summary, err := s.Summarize(context.Background(), "Lilly raises funds", strings.Repeat("가", 50))
	require.NoError(t, err)
	assert.Equal(t, "▷ Lilly (#자금조달)\n• 신규 투자 유치\n#투자", summary)
}

func TestOpenAISummarizerErrors(t *testing.T) {
	t.Parallel()

	_, err := NewOpenAISummarizer(config.OpenAIConfig{})
	require.Error(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Authorization"), "empty") {
			_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer server.Close()

	limited, err := NewOpenAISummarizer(config.OpenAIConfig{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)
	_, err = limited.Summarize(context.Background(), "t", "b")
	assert.Error(t, err)

	empty, err := NewOpenAISummarizer(config.OpenAIConfig{APIKey: "empty", BaseURL: server.URL})
	require.NoError(t, err)
	_, err = empty.Summarize(context.Background(), "t", "b")
	assert.Error(t, err)
}

func TestFallbackSummarizer(t *testing.T) {
	t.Parallel()

	got, err := FallbackSummarizer{}.Summarize(context.Background(), "ignored", "\n# Title\n\n line one \nline two\nline three\n")
	require.NoError(t, err)
	assert.Equal(t, "# Title\nline one\nline two", got)

	got, err = FallbackSummarizer{Lines: 1}.Summarize(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "임상", truncateRunes("임상시험", 2))
	assert.Equal(t, "abc", truncateRunes("abc", 0))
	assert.Equal(t, "abc", truncateRunes("abc", 5))
}
