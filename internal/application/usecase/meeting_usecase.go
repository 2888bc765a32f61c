package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/projectdesk-api/internal/application/dto"
	"github.com/jhoicas/projectdesk-api/internal/application/ports"
	"github.com/jhoicas/projectdesk-api/internal/application/project"
	"github.com/jhoicas/projectdesk-api/internal/domain"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
)

// DefaultLLMTimeout acota una llamada de resumen cuando no hay uno configurado.
const DefaultLLMTimeout = 30 * time.Second

// MeetingUseCase resume transcripciones de reuniones con el LLM configurado
// y guarda los resultados en el blob del proyecto.
type MeetingUseCase struct {
	llm     ports.LLMService
	store   *project.Store
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

// NewMeetingUseCase construye el caso de uso. llm puede ser nil si no hay
// proveedor configurado; Summarize devuelve entonces ErrAIUnavailable.
func NewMeetingUseCase(llm ports.LLMService, store *project.Store, timeout time.Duration, log zerolog.Logger) *MeetingUseCase {
	if timeout <= 0 {
		timeout = DefaultLLMTimeout
	}
	return &MeetingUseCase{llm: llm, store: store, timeout: timeout, log: log, now: time.Now}
}

// Summarize le pide al LLM un resumen de la transcripción y lo agrega a las
// reuniones del proyecto.
func (uc *MeetingUseCase) Summarize(ctx context.Context, projectID string, req dto.SummarizeMeetingRequest) (*dto.MeetingResponse, error) {
	if uc.llm == nil {
		return nil, domain.ErrAIUnavailable
	}
	if err := project.CheckID(projectID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, fmt.Errorf("%w: transcript is required", domain.ErrInvalidInput)
	}
	heldAt, err := parseHeldAt(req.HeldAt)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Meeting"
	}

	llmCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	start := uc.now()
	digest, err := uc.llm.SummarizeMeeting(llmCtx, ports.MeetingTranscript{Title: title, Transcript: req.Transcript})
	if err != nil {
		uc.log.Warn().Err(err).Str("project_id", projectID).Str("provider", uc.llm.Provider()).Msg("meeting summary failed")
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s timed out", domain.ErrAIUnavailable, uc.llm.Provider())
		}
		return nil, fmt.Errorf("meeting summary: %w", err)
	}

	meeting := entity.MeetingSummary{
		ID:        uuid.New().String(),
		Title:     title,
		HeldAt:    heldAt,
		Summary:   digest.Summary,
		Decisions: digest.Decisions,
		Risks:     digest.Risks,
		Provider:  uc.llm.Provider(),
		CreatedAt: uc.now().UTC(),
	}
	for _, a := range digest.ActionItems {
		meeting.ActionItems = append(meeting.ActionItems, entity.ActionItem(a))
	}

	err = uc.store.Update(ctx, projectID, func(blob *entity.ProjectBlob) error {
		blob.Meetings = append(blob.Meetings, meeting)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("project_id", projectID).Str("meeting_id", meeting.ID).
		Str("provider", meeting.Provider).Dur("took", uc.now().Sub(start)).
		Msg("meeting summarized")

	resp := toMeetingResponse(meeting)
	return &resp, nil
}

// List devuelve los resúmenes guardados, el más nuevo primero.
func (uc *MeetingUseCase) List(ctx context.Context, projectID string) ([]dto.MeetingResponse, error) {
	blob, err := uc.store.Load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MeetingResponse, 0, len(blob.Meetings))
	for i := len(blob.Meetings) - 1; i >= 0; i-- {
		out = append(out, toMeetingResponse(blob.Meetings[i]))
	}
	return out, nil
}

func toMeetingResponse(m entity.MeetingSummary) dto.MeetingResponse {
	resp := dto.MeetingResponse{
		ID:          m.ID,
		Title:       m.Title,
		HeldAt:      m.HeldAt,
		Summary:     m.Summary,
		Decisions:   m.Decisions,
		ActionItems: make([]dto.ActionItemDTO, 0, len(m.ActionItems)),
		Risks:       m.Risks,
		Provider:    m.Provider,
		CreatedAt:   m.CreatedAt,
	}
	for _, a := range m.ActionItems {
		resp.ActionItems = append(resp.ActionItems, dto.ActionItemDTO(a))
	}
	if resp.Decisions == nil {
		resp.Decisions = []string{}
	}
	if resp.Risks == nil {
		resp.Risks = []string{}
	}
	return resp
}

func parseHeldAt(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: heldAt %q", domain.ErrInvalidInput, s)
}
