package ai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/jhoicas/projectdesk-api/internal/application/dto"
	"github.com/jhoicas/projectdesk-api/internal/application/ports"
)

var _ ports.LLMService = (*OpenAIService)(nil)

// OpenAIService implementa LLMService con el cliente de chat completions de go-openai.
type OpenAIService struct {
	client *openai.Client
	model  string
	hasKey bool
}

// NewOpenAIService construye el adaptador. baseURL puede ir vacío para la API pública.
func NewOpenAIService(apiKey, model, baseURL string) *OpenAIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		hasKey: apiKey != "",
	}
}

func (s *OpenAIService) Provider() string { return "openai" }

// SummarizeMeeting pide una respuesta en objeto JSON y parsea el resumen.
func (s *OpenAIService) SummarizeMeeting(ctx context.Context, in ports.MeetingTranscript) (*dto.MeetingSummaryDTO, error) {
	if !s.hasKey {
		return nil, fmt.Errorf("AI: OPENAI_API_KEY not configured")
	}
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: meetingSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: meetingUserPrompt(in)},
		},
		Temperature:    0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout or cancellation: %w", ctx.Err())
		}
		return nil, fmt.Errorf("AI: OpenAI call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("AI: OpenAI returned no choices")
	}
	return parseMeetingSummary(s.Provider(), resp.Choices[0].Message.Content)
}
