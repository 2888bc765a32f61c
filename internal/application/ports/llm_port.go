package ports

import (
	"context"

	"github.com/jhoicas/projectdesk-api/internal/application/dto"
)

// MeetingTranscript es la entrada de un resumen de reunión.
type MeetingTranscript struct {
	Title      string
	Transcript string
}

// LLMService es el puerto de salida hacia un modelo de lenguaje. Los adaptadores
// (Anthropic, Gemini, OpenAI, fakes de test) reciben su API key al construirse;
// los llamadores nunca la ven. ctx debería llevar un timeout.
type LLMService interface {
	// SummarizeMeeting convierte una transcripción en un resumen estructurado.
	SummarizeMeeting(ctx context.Context, in MeetingTranscript) (*dto.MeetingSummaryDTO, error)
	// Provider nombra el servicio detrás ("anthropic", "gemini", "openai").
	Provider() string
}
