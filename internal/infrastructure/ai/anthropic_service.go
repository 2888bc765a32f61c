package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/projectdesk-api/internal/application/dto"
	"github.com/jhoicas/projectdesk-api/internal/application/ports"
)

var _ ports.LLMService = (*AnthropicService)(nil)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

// AnthropicService implementa LLMService sobre la API REST Messages de Anthropic.
type AnthropicService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicService construye el adaptador. Con apiKey vacía cada llamada
// falla con un error descriptivo sin salir a la red.
func NewAnthropicService(apiKey, model string) *AnthropicService {
	return &AnthropicService{
		apiKey:     apiKey,
		model:      model,
		baseURL:    anthropicBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// WithBaseURL apunta el adaptador a otro endpoint (proxies, tests).
func (s *AnthropicService) WithBaseURL(u string) *AnthropicService {
	s.baseURL = u
	return s
}

func (s *AnthropicService) Provider() string { return "anthropic" }

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// SummarizeMeeting envía la transcripción a Claude y parsea el resumen JSON.
func (s *AnthropicService) SummarizeMeeting(ctx context.Context, in ports.MeetingTranscript) (*dto.MeetingSummaryDTO, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("AI: ANTHROPIC_API_KEY not configured")
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     s.model,
		MaxTokens: 2048,
		System:    meetingSystemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: meetingUserPrompt(in)}},
	})
	if err != nil {
		return nil, fmt.Errorf("AI: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("AI: build HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout or cancellation: %w", ctx.Err())
		}
		return nil, fmt.Errorf("AI: HTTP call failed: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return nil, fmt.Errorf("AI: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("AI: Anthropic error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return nil, fmt.Errorf("AI: Anthropic HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return nil, fmt.Errorf("AI: decode Anthropic response: %w", err)
	}
	if len(anthResp.Content) == 0 {
		return nil, fmt.Errorf("AI: Claude returned an empty response")
	}
	return parseMeetingSummary(s.Provider(), anthResp.Content[0].Text)
}
