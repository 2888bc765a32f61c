package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jhoicas/projectdesk-api/internal/application/dto"
	"github.com/jhoicas/projectdesk-api/internal/application/ports"
)

var _ ports.LLMService = (*GeminiService)(nil)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiService implementa LLMService sobre la API REST generateContent de Gemini.
type GeminiService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiService(apiKey, model string) *GeminiService {
	return &GeminiService{
		apiKey:     apiKey,
		model:      model,
		baseURL:    geminiBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// WithBaseURL apunta el adaptador a otro endpoint (proxies, tests).
func (s *GeminiService) WithBaseURL(u string) *GeminiService {
	s.baseURL = u
	return s
}

func (s *GeminiService) Provider() string { return "gemini" }

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"` // application/json obliga a responder JSON sin adornos
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SummarizeMeeting envía la transcripción a Gemini y parsea el resumen JSON.
func (s *GeminiService) SummarizeMeeting(ctx context.Context, in ports.MeetingTranscript) (*dto.MeetingSummaryDTO, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("AI: GEMINI_API_KEY not configured")
	}

	body, err := json.Marshal(geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: meetingSystemPrompt}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: meetingUserPrompt(in)}}}},
		GenerationConfig: genConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.2,
			MaxOutputTokens:  2048,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("AI: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		s.baseURL, url.PathEscape(s.model), url.QueryEscape(s.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("AI: build HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout or cancellation: %w", ctx.Err())
		}
		// err incluye la URL, que lleva la clave.
		return nil, fmt.Errorf("AI: Gemini HTTP call failed")
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return nil, fmt.Errorf("AI: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("AI: Gemini error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return nil, fmt.Errorf("AI: Gemini HTTP %d", resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return nil, fmt.Errorf("AI: decode Gemini response: %w", err)
	}
	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("AI: Gemini returned no candidates")
	}
	return parseMeetingSummary(s.Provider(), gemResp.Candidates[0].Content.Parts[0].Text)
}
