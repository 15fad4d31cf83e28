package domain

// ActionRequest represents something the engine asks the presentation layer to show.
type ActionRequest struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Standard Action Types
const (
	// ActionRenderContent requests the host to display content to the respondent.
	// Payload: string (the interpolated prompt)
	ActionRenderContent = "RENDER_CONTENT"

	// ActionRequestInput requests the host to collect an answer.
	// Payload: InputRequest
	ActionRequestInput = "REQUEST_INPUT"

	// ActionSystemMessage represents a meta-message (greeting, validation failure).
	// Payload: string
	ActionSystemMessage = "SYSTEM_MESSAGE"

	// ActionProgress reports completion.
	// Payload: Progress
	ActionProgress = "PROGRESS"

	// ActionAchievement announces a newly unlocked milestone.
	// Payload: string (the label)
	ActionAchievement = "ACHIEVEMENT"
)

// InputRequest describes the constraints of the answer being collected.
type InputRequest struct {
	QuestionID string   `json:"question_id"`
	Field      string   `json:"field"`
	Kind       Kind     `json:"kind"`
	Options    []string `json:"options,omitempty"`
	Selected   []string `json:"selected,omitempty"`
	Required   bool     `json:"required"`
	Help       string   `json:"help,omitempty"`
}

// Progress is the payload of ActionProgress.
type Progress struct {
	Position int `json:"position"`
	Total    int `json:"total"`
	Percent  int `json:"percent"`
}
