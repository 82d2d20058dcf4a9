package model

// Question is one entry of the applicant questionnaire. Key names the
// feature the answer feeds.
type Question struct {
	Key         string           `json:"key"`
	Text        string           `json:"question"`
	Type        string           `json:"type"`
	Placeholder string           `json:"placeholder,omitempty"`
	Options     []QuestionOption `json:"options,omitempty"`
}

// QuestionOption is a selectable answer and the numeric value it maps to.
type QuestionOption struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

const (
	QuestionTypeSelect = "select"
	QuestionTypeNumber = "number"
)
