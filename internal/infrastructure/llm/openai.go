package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"PharmaDigest/internal/config"
	"PharmaDigest/internal/ports"
)

const promptTemplate = `BioSpace 기사 제목: %s

Read the news and provide a detailed yet compact report. DO NOT HALLUCINATE.
Start with the key entity (company/person/institution in English) followed by 2-3 detailed yet compact bullet points in Korean covering the main content of the news (clinical trials, finance, or quotations).
Finish with one line of hashtags.
Keep the format identical to the sample below.

기사 본문:
%s

Format sample:
▷ FDA (#항암제심사)
• FDA, 항암제 자문위(ODAC) 준비 과정에서 인력 감축 여파로 혼란 발생
• 기존 전문 인력 대거 이탈, 자문위 준비에 경험 부족 자원봉사자 투입
• 내부 관계자 "심사 신뢰성·전문성 저하 우려"
#인력감축
`

// OpenAISummarizer implements ports.Summarizer with the chat completions API.
type OpenAISummarizer struct {
	client       *openai.Client
	model        string
	temperature  float32
	maxTokens    int
	maxBodyRunes int
}

var _ ports.Summarizer = (*OpenAISummarizer)(nil)

// NewOpenAISummarizer builds a summarizer from configuration.
func NewOpenAISummarizer(cfg config.OpenAIConfig) (*OpenAISummarizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4
	}

	return &OpenAISummarizer{
		client:       openai.NewClientWithConfig(clientConfig),
		model:        model,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		maxBodyRunes: cfg.MaxBodyRunes,
	}, nil
}

// Summarize asks the model for a structured Korean summary of one article.
func (s *OpenAISummarizer) Summarize(ctx context.Context, title, body string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(promptTemplate, title, truncateRunes(body, s.maxBodyRunes)),
			},
		},
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", errors.New("openai returned an empty summary")
	}
	return summary, nil
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
