package dto

import "time"

// SummarizeMeetingRequest body de POST /api/projects/:projectID/meetings/summarize.
type SummarizeMeetingRequest struct {
	Title      string `json:"title"`
	HeldAt     string `json:"heldAt,omitempty"` // "2006-01-02" or RFC 3339
	Transcript string `json:"transcript"`
}

// MeetingSummaryDTO salida estructurada que se espera del LLM.
type MeetingSummaryDTO struct {
	Summary     string          `json:"summary"`
	Decisions   []string        `json:"decisions"`
	ActionItems []ActionItemDTO `json:"action_items"`
	Risks       []string        `json:"risks"`
}

// ActionItemDTO tarea de seguimiento propuesta por el LLM.
type ActionItemDTO struct {
	Task     string `json:"task"`
	Owner    string `json:"owner,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
	Priority string `json:"priority,omitempty"` // low | medium | high
}

// MeetingResponse resumen de reunión guardado.
type MeetingResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	HeldAt      *time.Time      `json:"heldAt,omitempty"`
	Summary     string          `json:"summary"`
	Decisions   []string        `json:"decisions"`
	ActionItems []ActionItemDTO `json:"actionItems"`
	Risks       []string        `json:"risks"`
	Provider    string          `json:"provider"`
	CreatedAt   time.Time       `json:"createdAt"`
}
