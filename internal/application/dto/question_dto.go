package dto

import "github.com/kushwaha-yash/loan-risk/internal/domain/model"

type QuestionOption struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// QuestionResponse is one questionnaire entry as served to clients.
type QuestionResponse struct {
	Key         string           `json:"key"`
	Question    string           `json:"question"`
	Type        string           `json:"type"`
	Placeholder string           `json:"placeholder,omitempty"`
	Options     []QuestionOption `json:"options,omitempty"`
}

// FromQuestions maps the catalog to response DTOs, keeping order.
func FromQuestions(qs []model.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(qs))
	for _, q := range qs {
		r := QuestionResponse{
			Key:         q.Key,
			Question:    q.Text,
			Type:        q.Type,
			Placeholder: q.Placeholder,
		}
		for _, o := range q.Options {
			r.Options = append(r.Options, QuestionOption{Label: o.Label, Value: o.Value})
		}
		out = append(out, r)
	}
	return out
}
