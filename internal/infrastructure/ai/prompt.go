package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/projectdesk-api/internal/application/dto"
	"github.com/jhoicas/projectdesk-api/internal/application/ports"
)

const meetingSystemPrompt = `You summarize project meeting transcripts for a project manager.
Return ONLY a valid JSON object (no markdown, no code fences) with exactly this shape:
{
  "summary": "<three to five sentences>",
  "decisions": ["<decision>", ...],
  "action_items": [{"task": "<task>", "owner": "<name or empty>", "due_date": "<YYYY-MM-DD or empty>", "priority": "low|medium|high"}],
  "risks": ["<risk>", ...]
}
Use empty arrays when a section has nothing. Do not invent owners or dates.`

// maxTranscriptRunes limita lo que se envía a un proveedor.
const maxTranscriptRunes = 60000

func meetingUserPrompt(in ports.MeetingTranscript) string {
	t := []rune(in.Transcript)
	if len(t) > maxTranscriptRunes {
		t = t[:maxTranscriptRunes]
	}
	return fmt.Sprintf("Meeting: %s\n\nTranscript:\n%s", in.Title, string(t))
}

// jsonBlockRe captura desde la primera '{' hasta la última '}'.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON saca el objeto JSON del texto libre del modelo:
// primero quita los bloques markdown y luego toma el {...} más externo.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}

// parseMeetingSummary decodifica y normaliza la salida del modelo.
func parseMeetingSummary(provider, raw string) (*dto.MeetingSummaryDTO, error) {
	clean := extractJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("AI: %s returned no JSON (response: %.200s)", provider, raw)
	}
	var out dto.MeetingSummaryDTO
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, fmt.Errorf("AI: parse %s summary: %w", provider, err)
	}
	out.Summary = strings.TrimSpace(out.Summary)
	if out.Summary == "" {
		return nil, fmt.Errorf("AI: %s returned an empty summary", provider)
	}
	if out.Decisions == nil {
		out.Decisions = []string{}
	}
	if out.Risks == nil {
		out.Risks = []string{}
	}
	items := out.ActionItems[:0]
	for _, it := range out.ActionItems {
		it.Task = strings.TrimSpace(it.Task)
		if it.Task == "" {
			continue
		}
		switch strings.ToLower(it.Priority) {
		case "low", "medium", "high":
			it.Priority = strings.ToLower(it.Priority)
		default:
			it.Priority = "medium"
		}
		items = append(items, it)
	}
	if items == nil {
		items = []dto.ActionItemDTO{}
	}
	out.ActionItems = items
	return &out, nil
}
