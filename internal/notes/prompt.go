package notes

import (
	"encoding/json"
	"strings"
)

// SystemPrompt instructs the backend to return the fixed JSON shape the
// parser expects.
const SystemPrompt = `You are a meeting notes assistant. Analyze meeting transcripts and produce structured notes.

Return a JSON object with exactly this shape:
{
  "summary": "An executive summary of the meeting in 2-4 paragraphs",
  "decisions": ["Decision 1", "Decision 2"],
  "actionItems": [{"task": "Description", "assignee": "Person or null", "dueDate": "Date or null"}]
}

Rules:
- Summary should capture the key discussion points and outcomes
- Extract every decision that was made, even implicit ones
- Extract every action item, task, or follow-up mentioned
- If an assignee or due date is mentioned, include them
- Return ONLY valid JSON, no markdown fences`

// StripFences removes leading/trailing markdown code-fence syntax. Some
// backends wrap their JSON in fences despite instructions not to.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "```") {
		// drop the opening fence line, including any language tag
		if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
			trimmed = trimmed[idx+1:]
		} else {
			trimmed = strings.TrimPrefix(trimmed, "```")
		}
	}
	trimmed = strings.TrimSpace(trimmed)
	if strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSuffix(trimmed, "```")
	}

	return strings.TrimSpace(trimmed)
}

// ParseResponse decodes a backend response into Notes. An unparseable
// response is a GenerationError, never silently empty notes.
func ParseResponse(text string) (*Notes, error) {
	cleaned := StripFences(text)

	var n Notes
	if err := json.Unmarshal([]byte(cleaned), &n); err != nil {
		return nil, NewGenerationError(err)
	}
	return &n, nil
}
